// Command officectl drives a simulated office facility controller.
package main

import "github.com/oshokin/office-controller/cmd/officectl/cmd"

func main() {
	cmd.Execute()
}
