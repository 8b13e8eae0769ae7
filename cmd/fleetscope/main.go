// FleetScope - multi-cloud Kubernetes cluster inventory.
// Collect. Store. Serve.
package main

func main() {
	Execute()
}
