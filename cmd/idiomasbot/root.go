package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "idiomasbot",
	Short: "WhatsApp intake bot for the language school",
	Long:  `idiomasbot turns inbound WhatsApp chats into enrollment and reservation records through guided multi-turn dialogs.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
