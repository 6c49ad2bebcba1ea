package main

import (
	"fmt"

	"github.com/addrbook/contact-bridge-service/cmd"

	_ "github.com/addrbook/contact-bridge-service/cmd/server"
)

func main() {
	if err := cmd.Run(); err != nil {
		fmt.Println(err.Error())
		return
	}
}
