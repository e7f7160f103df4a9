// Command server runs the flight booking administration services.
//
//	server users     # users service on USERS_PORT
//	server flights   # flights service on FLIGHTS_PORT
//	server migrate   # create the schema
//	server consume   # write reservation events to the log directory
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Flight booking administration services",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, relying on environment variables")
		}
	},
}

func init() {
	usersCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the schema before serving")
	flightsCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the schema before serving")

	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(flightsCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(consumeCmd)
}
