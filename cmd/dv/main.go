package main

import (
	"log"

	"datavault/cmd/dv/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		log.Fatal(err)
	}
}
