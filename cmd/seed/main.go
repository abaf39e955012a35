package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

func main() {
	parser := flags.NewParser(nil, flags.Default)

	_, err := parser.AddCommand("demo",
		"seed demo users and notifications",
		"The demo command creates an admin, an advisor and a Hindi-speaking end user, "+
			"sends each of them sample notifications and prints a bearer token per user.",
		&Demo{})
	if err != nil {
		log.Fatal(err)
	}
	_, err = parser.AddCommand("token",
		"issue a bearer token",
		"The token command prints an HS256 bearer token for an existing user.",
		&Token{})
	if err != nil {
		log.Fatal(err)
	}
	_, err = parser.AddCommand("notify",
		"send a notification",
		"The notify command sends one notification to a user, or to every admin with --admins.",
		&Notify{})
	if err != nil {
		log.Fatal(err)
	}

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
}
