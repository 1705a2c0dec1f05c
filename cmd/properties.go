package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lukrum/fxmodels/modelsapi"
)

var (
	propModelID int
	propTypeID  int
	propValue   string
)

// propertiesCmd groups property subcommands
var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "Manage model properties",
}

// propertyTypesCmd groups the read-only property type subcommands
var propertyTypesCmd = &cobra.Command{
	Use:   "property-types",
	Short: "Inspect property type definitions",
}

func init() {
	propertiesCmd.AddCommand(propListCmd)
	propertiesCmd.AddCommand(propGetCmd)
	propertiesCmd.AddCommand(propCreateCmd)
	propertiesCmd.AddCommand(propUpdateCmd)
	propertiesCmd.AddCommand(propDeleteCmd)

	propertyTypesCmd.AddCommand(propTypeListCmd)
	propertyTypesCmd.AddCommand(propTypeGetCmd)

	propListCmd.Flags().IntVar(&propModelID, "model-id", 0, "filter by model ID")

	propCreateCmd.Flags().IntVar(&propModelID, "model-id", 0, "model ID")
	propCreateCmd.Flags().IntVar(&propTypeID, "type-id", 0, "property type ID")
	propCreateCmd.Flags().StringVar(&propValue, "value", "", "property value")
	propCreateCmd.MarkFlagRequired("model-id")
	propCreateCmd.MarkFlagRequired("type-id")
	propCreateCmd.MarkFlagRequired("value")

	propUpdateCmd.Flags().StringVar(&propValue, "value", "", "new property value")
	propUpdateCmd.MarkFlagRequired("value")
}

var propListCmd = &cobra.Command{
	Use:   "list",
	Short: "List properties",
	RunE: func(cmd *cobra.Command, args []string) error {
		var modelID *int
		if cmd.Flags().Changed("model-id") {
			modelID = &propModelID
		}

		properties, err := client.GetProperties(cmd.Context(), modelID)
		if err != nil {
			return err
		}

		if len(properties) == 0 {
			fmt.Println("No properties found.")
			return nil
		}
		for _, p := range properties {
			printProperty(&p)
		}
		return nil
	},
}

func printProperty(p *modelsapi.Property) {
	fmt.Printf("• #%d model=%d type=%d value=%s\n", p.ID, p.ModelID, p.PropertyTypeID, p.Value)
}

var propGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Get a property by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid property ID %q", args[0])
		}

		p, err := client.GetProperty(cmd.Context(), id)
		if err != nil {
			return err
		}
		printProperty(p)
		return nil
	},
}

var propCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new property",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := client.CreateProperty(cmd.Context(), modelsapi.PropertyCreateRequest{
			ModelID:        propModelID,
			PropertyTypeID: propTypeID,
			Value:          propValue,
		})
		if err != nil {
			return err
		}

		logger.Info().Int("id", p.ID).Msg("Property created")
		printProperty(p)
		return nil
	},
}

var propUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a property by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid property ID %q", args[0])
		}

		p, err := client.UpdateProperty(cmd.Context(), id, modelsapi.PropertyUpdateRequest{
			Value: &propValue,
		})
		if err != nil {
			return err
		}

		logger.Info().Int("id", p.ID).Msg("Property updated")
		printProperty(p)
		return nil
	},
}

var propDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a property by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid property ID %q", args[0])
		}

		if err := client.DeleteProperty(cmd.Context(), id); err != nil {
			return err
		}
		logger.Info().Int("id", id).Msg("Property deleted")
		return nil
	},
}

var propTypeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List property types",
	RunE: func(cmd *cobra.Command, args []string) error {
		types, err := client.GetPropertyTypes(cmd.Context())
		if err != nil {
			return err
		}

		for _, pt := range types {
			fmt.Printf("• #%d %s", pt.ID, pt.Name)
			if pt.Description != "" {
				fmt.Printf(" (%s)", pt.Description)
			}
			fmt.Println()
		}
		return nil
	},
}

var propTypeGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Get a property type by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid property type ID %q", args[0])
		}

		pt, err := client.GetPropertyType(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n%s\n", pt.ID, pt.Name, pt.Description)
		return nil
	},
}
