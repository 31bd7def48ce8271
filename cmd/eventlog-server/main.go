// Command eventlog-server collects facility events from office controllers.
package main

import "github.com/oshokin/office-controller/cmd/eventlog-server/cmd"

func main() {
	cmd.Execute()
}
