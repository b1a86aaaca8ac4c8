// Paxflow simulates passengers flowing through the check-in, security, and
// boarding queues of an airport.
package main

import "github.com/sarchlab/paxflow/paxflow/cmd"

func main() {
	cmd.Execute()
}
