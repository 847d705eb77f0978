package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pinctl/pinctl/filter"
	"github.com/pinctl/pinctl/pinapi"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <meta-id>",
	Short: "List pins in a meta group",
	Long: `List all pins sharing the given meta ID, optionally narrowed by a
filter expression or a preset from the config file.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
}

func runList(cmd *cobra.Command, args []string) error {
	metaID := args[0]
	ctx := context.Background()

	expression, err := getFilterExpression()
	if err != nil {
		return err
	}

	var pins []pinapi.Pin
	if expression != "" {
		logger.Info().Str("meta_id", metaID).Str("filter", expression).Msg("Searching pins")

		searcher := client.Extensions[filter.ExtensionKey].(*filter.Searcher)
		pins, err = searcher.Search(ctx, metaID, expression)
	} else {
		logger.Info().Str("meta_id", metaID).Msg("Listing pins")

		pins, err = client.GetPins(ctx, metaID)
	}
	if err != nil {
		return err
	}

	if len(pins) == 0 {
		fmt.Println("No pins found.")
		return nil
	}

	fmt.Printf("\nFound %d pins:\n", len(pins))
	fmt.Println(strings.Repeat("-", 80))

	for _, pin := range pins {
		fmt.Printf("• %s", pin.ID)
		if pin.Alert {
			fmt.Printf(" [ALERT]")
		}
		fmt.Println()
		fmt.Printf("  Position: (%.2f, %.2f, %.2f)  Opacity: %.2f\n",
			pin.Position.X, pin.Position.Y, pin.Position.Z, pin.Opacity)
		if pin.Icon != "" {
			fmt.Printf("  Icon: %s\n", pin.Icon)
		}
		if pin.Color != "" {
			fmt.Printf("  Color: %s\n", pin.Color)
		}
	}

	return nil
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create pins from a JSON file",
	Long: `Create pins from a JSON array of pin definitions read from a file
or standard input. Omitted optional fields get server-applied defaults.`,
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVarP(&inputFile, "file", "F", "-", "JSON file with pins to create ('-' for stdin)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	var pins []pinapi.CreatePin
	if err := readJSONInput(inputFile, &pins); err != nil {
		return err
	}

	created, err := client.CreatePins(context.Background(), pins)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Created %d pins:\n", len(created))
	for _, pin := range created {
		fmt.Printf("  • %s (meta: %s)\n", pin.ID, pin.MetaID)
	}

	return nil
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update pins from a JSON file",
	Long: `Apply partial pin updates from a JSON array read from a file or
standard input. Every entry needs an id; only the fields present change.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVarP(&inputFile, "file", "F", "-", "JSON file with pin updates ('-' for stdin)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var pins []pinapi.UpdatePin
	if err := readJSONInput(inputFile, &pins); err != nil {
		return err
	}

	for _, pin := range pins {
		if pin.ID == "" {
			return fmt.Errorf("every update entry requires an id")
		}
	}

	updated, err := client.UpdatePins(context.Background(), pins)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Updated %d pins\n", len(updated))
	return nil
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete pins by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if !noConfirm {
		fmt.Printf("About to delete %d pins. Continue? [y/N]: ", len(args))

		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
		if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			logger.Info().Msg("Deletion cancelled")
			return nil
		}
	}

	result, err := client.DeletePins(context.Background(), args)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Deleted %d pins\n", result.Deleted)
	return nil
}

// metadataCmd represents the metadata command
var metadataCmd = &cobra.Command{
	Use:   "metadata <meta-id>",
	Short: "Show the metadata record for a meta ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	metadata, err := client.GetMetadata(context.Background(), args[0])
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, metadata, "", "  "); err != nil {
		// Opaque pass-through: show whatever the server sent.
		fmt.Println(string(metadata))
		return nil
	}

	fmt.Println(pretty.String())
	return nil
}

// readJSONInput decodes a JSON document from a file path or stdin ("-").
func readJSONInput(path string, v any) error {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	if err := json.NewDecoder(reader).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON input: %w", err)
	}
	return nil
}
