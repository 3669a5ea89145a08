// Command onectl extracts text, metadata and embedded files from OneNote
// section and table of contents files.
package main

func main() {
	execute()
}
