// Command invoicectl is the operator CLI for the invoice console: it lists,
// exports and submits invoices against the billing backend.
package main

func main() {
	Execute()
}
