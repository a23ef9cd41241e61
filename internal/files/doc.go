// Package files provides file system helpers for locating input exports and
// naming split outputs.
//
// Discovery lists the CSV files of an input directory in a stable, name
// sorted order. Stem derives the output prefix from an input path.
//
// Example usage:
//
//	discovery := files.NewDiscovery(".")
//	inputs, err := discovery.FindCSVFiles("all reports")
//	for _, f := range inputs {
//	    fmt.Println(files.Stem(f.Path))
//	}
package files
