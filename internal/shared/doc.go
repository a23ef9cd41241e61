// Package shared holds helpers used by more than one reportsplit package.
//
// The testutil subpackage provides a capturing slog handler so tests can
// assert on the status events the splitter reports:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    // run code that logs through logger
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "Column not found")
//	}
//
// Nothing in this package may contain splitting logic.
package shared
