// This program performs administrative tasks for the ledger node.
package main

import "github.com/ardanlabs/ledger/app/tooling/admin/commands"

func main() {
	commands.Execute()
}
