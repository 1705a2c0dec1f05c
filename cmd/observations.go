package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lukrum/fxmodels/modelsapi"
)

var (
	obsModelID    int
	obsTs         string
	obsValuesJSON string
)

// observationsCmd groups observation subcommands
var observationsCmd = &cobra.Command{
	Use:   "observations",
	Short: "Manage model observations",
}

func init() {
	observationsCmd.AddCommand(obsListCmd)
	observationsCmd.AddCommand(obsGetCmd)
	observationsCmd.AddCommand(obsCreateCmd)
	observationsCmd.AddCommand(obsUpdateCmd)
	observationsCmd.AddCommand(obsDeleteCmd)

	obsListCmd.Flags().IntVar(&obsModelID, "model-id", 0, "filter by model ID")

	obsCreateCmd.Flags().IntVar(&obsModelID, "model-id", 0, "model ID")
	obsCreateCmd.Flags().StringVar(&obsTs, "ts", "", "observation timestamp")
	obsCreateCmd.Flags().StringVar(&obsValuesJSON, "values", "", `observation values as JSON, e.g. '{"rsi": 54.2}'`)
	obsCreateCmd.MarkFlagRequired("model-id")
	obsCreateCmd.MarkFlagRequired("ts")
	obsCreateCmd.MarkFlagRequired("values")

	obsUpdateCmd.Flags().StringVar(&obsTs, "ts", "", "new observation timestamp")
	obsUpdateCmd.Flags().StringVar(&obsValuesJSON, "values", "", "new observation values as JSON")
}

var obsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		var modelID *int
		if cmd.Flags().Changed("model-id") {
			modelID = &obsModelID
		}

		observations, err := client.GetObservations(cmd.Context(), modelID)
		if err != nil {
			return err
		}

		if len(observations) == 0 {
			fmt.Println("No observations found.")
			return nil
		}
		for _, o := range observations {
			printObservation(&o)
		}
		return nil
	},
}

func printObservation(o *modelsapi.Observation) {
	fmt.Printf("• #%d model=%d ts=%s values=%v\n", o.ID, o.ModelID, o.Ts, o.Values)
}

var obsGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Get an observation by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid observation ID %q", args[0])
		}

		o, err := client.GetObservation(cmd.Context(), id)
		if err != nil {
			return err
		}
		printObservation(o)
		return nil
	},
}

var obsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new observation",
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseValuesJSON(obsValuesJSON)
		if err != nil {
			return err
		}

		o, err := client.CreateObservation(cmd.Context(), modelsapi.ObservationCreateRequest{
			ModelID: obsModelID,
			Ts:      obsTs,
			Values:  values,
		})
		if err != nil {
			return err
		}

		logger.Info().Int("id", o.ID).Msg("Observation created")
		printObservation(o)
		return nil
	},
}

var obsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update an observation by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid observation ID %q", args[0])
		}

		var req modelsapi.ObservationUpdateRequest
		if cmd.Flags().Changed("ts") {
			req.Ts = &obsTs
		}
		if cmd.Flags().Changed("values") {
			values, err := parseValuesJSON(obsValuesJSON)
			if err != nil {
				return err
			}
			req.Values = values
		}

		o, err := client.UpdateObservation(cmd.Context(), id, req)
		if err != nil {
			return err
		}

		logger.Info().Int("id", o.ID).Msg("Observation updated")
		printObservation(o)
		return nil
	},
}

var obsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete an observation by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid observation ID %q", args[0])
		}

		if err := client.DeleteObservation(cmd.Context(), id); err != nil {
			return err
		}
		logger.Info().Int("id", id).Msg("Observation deleted")
		return nil
	},
}

func parseValuesJSON(raw string) (map[string]float64, error) {
	var values map[string]float64
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("invalid --values JSON: %w", err)
	}
	return values, nil
}
