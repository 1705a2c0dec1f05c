package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lukrum/fxmodels/filter"
	"github.com/lukrum/fxmodels/modelsapi"
)

var (
	modelActive     int
	modelUUIDs      []string
	modelEntryGrans []string
	modelExitGrans  []string
	modelFilterExpr string

	createName       string
	createUUID       string
	createInstrument string
	createActive     int
	createExitType   string
	createTPPips     float64
	createSLPips     float64
	createEntryGran  string
	createExitGran   string

	updateName     string
	updateActive   int
	updateExitType string
	updateTPPips   float64
	updateSLPips   float64
)

// modelsCmd groups model management subcommands
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage trading models",
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsGetCmd)
	modelsCmd.AddCommand(modelsCreateCmd)
	modelsCmd.AddCommand(modelsUpdateCmd)
	modelsCmd.AddCommand(modelsDeleteCmd)
	modelsCmd.AddCommand(modelsStatsCmd)
	modelsCmd.AddCommand(modelsGranularitiesCmd)

	modelsListCmd.Flags().IntVar(&modelActive, "active", -1, "filter by active flag (1 or 0)")
	modelsListCmd.Flags().StringSliceVar(&modelUUIDs, "uuid", nil, "filter by model UUID (repeatable)")
	modelsListCmd.Flags().StringSliceVar(&modelEntryGrans, "entry-granularity", nil, "filter by entry granularity (repeatable)")
	modelsListCmd.Flags().StringSliceVar(&modelExitGrans, "exit-granularity", nil, "filter by exit granularity (repeatable)")
	modelsListCmd.Flags().StringVarP(&modelFilterExpr, "filter", "f", "", "client-side filter expression")

	modelsCreateCmd.Flags().StringVar(&createName, "name", "", "model name")
	modelsCreateCmd.Flags().StringVar(&createUUID, "uuid", "", "model UUID")
	modelsCreateCmd.Flags().StringVar(&createInstrument, "instrument", "", "instrument")
	modelsCreateCmd.Flags().IntVar(&createActive, "active", 0, "active flag (1 or 0)")
	modelsCreateCmd.Flags().StringVar(&createExitType, "exit-type", "", "exit type")
	modelsCreateCmd.Flags().Float64Var(&createTPPips, "tp-pips", 0, "take-profit pips")
	modelsCreateCmd.Flags().Float64Var(&createSLPips, "sl-pips", 0, "stop-loss pips")
	modelsCreateCmd.Flags().StringVar(&createEntryGran, "entry-granularity", "", "entry granularity")
	modelsCreateCmd.Flags().StringVar(&createExitGran, "exit-granularity", "", "exit granularity")
	modelsCreateCmd.MarkFlagRequired("name")
	modelsCreateCmd.MarkFlagRequired("uuid")
	modelsCreateCmd.MarkFlagRequired("exit-type")

	modelsUpdateCmd.Flags().StringVar(&updateName, "name", "", "new model name")
	modelsUpdateCmd.Flags().IntVar(&updateActive, "active", -1, "new active flag (1 or 0)")
	modelsUpdateCmd.Flags().StringVar(&updateExitType, "exit-type", "", "new exit type")
	modelsUpdateCmd.Flags().Float64Var(&updateTPPips, "tp-pips", 0, "new take-profit pips")
	modelsUpdateCmd.Flags().Float64Var(&updateSLPips, "sl-pips", 0, "new stop-loss pips")
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models matching the filter criteria",
	RunE:  runModelsList,
}

func runModelsList(cmd *cobra.Command, args []string) error {
	apiFilter := modelsapi.ModelFilter{
		UUIDs:              modelUUIDs,
		EntryGranularities: modelEntryGrans,
		ExitGranularities:  modelExitGrans,
	}
	if cmd.Flags().Changed("active") {
		apiFilter.Active = &modelActive
	}

	models, err := client.GetModels(cmd.Context(), apiFilter)
	if err != nil {
		return err
	}

	if modelFilterExpr != "" {
		f, err := filter.Compile(modelFilterExpr)
		if err != nil {
			return err
		}
		models, err = filter.Models(f, models)
		if err != nil {
			return err
		}
	}

	if len(models) == 0 {
		fmt.Println("No models found matching the filter criteria.")
		return nil
	}

	fmt.Printf("Found %d models:\n", len(models))
	fmt.Println(strings.Repeat("-", 80))
	for _, m := range models {
		printModel(&m)
	}
	return nil
}

func printModel(m *modelsapi.Model) {
	status := "inactive"
	if m.IsActive() {
		status = "active"
	}
	fmt.Printf("• %s [%s] (uuid=%s)\n", m.Name, status, m.ModelUUID)
	if m.Instrument != "" {
		fmt.Printf("  Instrument: %s\n", m.Instrument)
	}
	fmt.Printf("  Exit: %s  TP: %.1f pips  SL: %.1f pips\n", m.ExitType, m.TPPips, m.SLPips)
	if m.EntryGranularity != "" || m.ExitGranularity != "" {
		fmt.Printf("  Granularity: entry=%s exit=%s\n", m.EntryGranularity, m.ExitGranularity)
	}
}

var modelsGetCmd = &cobra.Command{
	Use:   "get UUID",
	Short: "Get a model by UUID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := client.GetModelByUUID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printModel(m)
		return nil
	},
}

var modelsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new model",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := modelsapi.ModelCreateRequest{
			Name:             createName,
			ModelUUID:        createUUID,
			Instrument:       createInstrument,
			Active:           createActive,
			ExitType:         createExitType,
			TPPips:           createTPPips,
			SLPips:           createSLPips,
			EntryGranularity: createEntryGran,
			ExitGranularity:  createExitGran,
		}

		m, err := client.CreateModel(cmd.Context(), req)
		if err != nil {
			return err
		}

		logger.Info().Int("id", m.ID).Str("uuid", m.ModelUUID).Msg("Model created")
		printModel(m)
		return nil
	},
}

var modelsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update a model by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modelID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid model ID %q", args[0])
		}

		var req modelsapi.ModelUpdateRequest
		if cmd.Flags().Changed("name") {
			req.Name = &updateName
		}
		if cmd.Flags().Changed("active") {
			req.Active = &updateActive
		}
		if cmd.Flags().Changed("exit-type") {
			req.ExitType = &updateExitType
		}
		if cmd.Flags().Changed("tp-pips") {
			req.TPPips = &updateTPPips
		}
		if cmd.Flags().Changed("sl-pips") {
			req.SLPips = &updateSLPips
		}

		m, err := client.UpdateModel(cmd.Context(), modelID, req)
		if err != nil {
			return err
		}

		logger.Info().Int("id", m.ID).Msg("Model updated")
		printModel(m)
		return nil
	},
}

var modelsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a model by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modelID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid model ID %q", args[0])
		}

		if err := client.DeleteModel(cmd.Context(), modelID); err != nil {
			return err
		}
		logger.Info().Int("id", modelID).Msg("Model deleted")
		return nil
	},
}

var modelsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counts of active models by instrument and granularity",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := client.GetActiveStats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Active models: %d\n", stats.Total)
		printCounts("By instrument", stats.ByInstrument)
		printCounts("By entry granularity", stats.ByEntryGranularity)
		printCounts("By exit granularity", stats.ByExitGranularity)
		return nil
	},
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %s: %d\n", k, counts[k])
	}
}

var modelsGranularitiesCmd = &cobra.Command{
	Use:   "granularities",
	Short: "List distinct entry and exit granularities",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		entry, err := client.GetEntryGranularities(ctx)
		if err != nil {
			return err
		}
		exit, err := client.GetExitGranularities(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Entry granularities: %s\n", strings.Join(entry, ", "))
		fmt.Printf("Exit granularities:  %s\n", strings.Join(exit, ", "))
		return nil
	},
}
