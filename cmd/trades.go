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
	tradeModelID    int
	tradeModelUUID  string
	tradeType       string
	tradeResult     string
	tradeOpenStart  string
	tradeOpenEnd    string
	tradeOpenOnly   bool
	tradeLimit      int
	tradeOffset     int
	tradeOrderBy    string
	tradeOrder      string
	tradeFilterExpr string
)

// tradesCmd groups trade history subcommands
var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Inspect trade history and statistics",
}

func init() {
	tradesCmd.AddCommand(tradesListCmd)
	tradesCmd.AddCommand(tradesStatsCmd)

	tradesListCmd.Flags().IntVar(&tradeModelID, "model-id", 0, "filter by model ID")
	tradesListCmd.Flags().StringVar(&tradeModelUUID, "model-uuid", "", "filter by model UUID")
	tradesListCmd.Flags().StringVar(&tradeType, "type", "", "filter by trade type (LONG/SHORT)")
	tradesListCmd.Flags().StringVar(&tradeResult, "result", "", "filter by trade result (TP/SL)")
	tradesListCmd.Flags().StringVar(&tradeOpenStart, "open-start", "", "trades opened after this timestamp")
	tradesListCmd.Flags().StringVar(&tradeOpenEnd, "open-end", "", "trades opened before this timestamp")
	tradesListCmd.Flags().BoolVar(&tradeOpenOnly, "open", false, "only trades still open")
	tradesListCmd.Flags().IntVar(&tradeLimit, "limit", 0, "limit number of results")
	tradesListCmd.Flags().IntVar(&tradeOffset, "offset", 0, "offset for pagination")
	tradesListCmd.Flags().StringVar(&tradeOrderBy, "order-by", "", "field to order by (default ts_open)")
	tradesListCmd.Flags().StringVar(&tradeOrder, "order", "", "order direction (asc/desc)")
	tradesListCmd.Flags().StringVarP(&tradeFilterExpr, "filter", "f", "", "client-side filter expression")
}

var tradesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trade history matching the filter criteria",
	RunE:  runTradesList,
}

func runTradesList(cmd *cobra.Command, args []string) error {
	apiFilter := modelsapi.TradeHistoryFilter{
		ModelUUID:   tradeModelUUID,
		TradeType:   tradeType,
		TradeResult: tradeResult,
		TsOpenStart: tradeOpenStart,
		TsOpenEnd:   tradeOpenEnd,
		OrderBy:     tradeOrderBy,
		Order:       tradeOrder,
	}
	if cmd.Flags().Changed("model-id") {
		apiFilter.ModelID = &tradeModelID
	}
	if cmd.Flags().Changed("open") {
		apiFilter.Open = &tradeOpenOnly
	}
	if cmd.Flags().Changed("limit") {
		apiFilter.Limit = &tradeLimit
	}
	if cmd.Flags().Changed("offset") {
		apiFilter.Offset = &tradeOffset
	}

	resp, err := client.GetTradeHistory(cmd.Context(), apiFilter)
	if err != nil {
		return err
	}

	trades := resp.Trades
	if tradeFilterExpr != "" {
		f, err := filter.Compile(tradeFilterExpr)
		if err != nil {
			return err
		}
		trades, err = filter.Trades(f, trades)
		if err != nil {
			return err
		}
	}

	if len(trades) == 0 {
		fmt.Println("No trades found matching the filter criteria.")
		return nil
	}

	fmt.Printf("Showing %d of %d trades:\n", len(trades), resp.Count)
	fmt.Println(strings.Repeat("-", 80))
	for _, t := range trades {
		printTrade(&t)
	}
	if resp.HasMore() {
		fmt.Println("\nMore results available; use --limit and --offset to page through them.")
	}
	return nil
}

func printTrade(t *modelsapi.TradeHistory) {
	state := t.TradeResult
	if t.IsOpen() {
		state = "OPEN"
	}
	fmt.Printf("• #%d model=%d %s %s %.1f pips (opened %s", t.ID, t.ModelID, t.TradeType, state, t.Pips, t.TsOpen)
	if !t.IsOpen() {
		fmt.Printf(", closed %s", t.TsClose)
	}
	fmt.Println(")")
}

var tradesStatsCmd = &cobra.Command{
	Use:   "stats MODEL_ID...",
	Short: "Show aggregated trade statistics for one or more models",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTradesStats,
}

func runTradesStats(cmd *cobra.Command, args []string) error {
	modelIDs := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid model ID %q", arg)
		}
		modelIDs = append(modelIDs, id)
	}

	stats := client.GetModelStatsBatch(cmd.Context(), modelIDs)
	if len(stats) == 0 {
		return fmt.Errorf("no stats available for the requested models")
	}

	ids := make([]int, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		s := stats[id]
		fmt.Printf("Model %d:\n", id)
		fmt.Printf("  Trades: %d (%d wins, %d losses)\n", s.TotalTrades, s.Wins, s.Losses)
		fmt.Printf("  Win rate: %.1f%%\n", s.WinRate)
		fmt.Printf("  Pips: %.1f total, %.2f average\n", s.TotalPips, s.AvgPips)
	}

	if len(stats) < len(modelIDs) {
		logger.Warn().
			Int("requested", len(modelIDs)).
			Int("returned", len(stats)).
			Msg("Stats missing for some models")
	}
	return nil
}
