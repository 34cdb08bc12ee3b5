// Command hubspoke is the operator tool for the hub and spoke settlement core.
package main

func main() {
	Execute()
}
