package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/storage"
	"github.com/Recon222/Folder-Structure-HASH-Media-Analysis-sub010/pkg/fshash/types"
)

var drivesCmd = &cobra.Command{
	Use:   "drives",
	Short: "Inspect mounted volumes and their parallelism verdicts",
	Long: `Inspect every mounted volume and report the storage type, bus,
and worker count the hashing engine would pick for it.

Detection uses hardware queries and the system media inventory. The
write/read probe tier is off by default so evidence media is never
written to; enable it with --benchmark on volumes where that is safe.`,
	RunE: runDrives,
}

func init() {
	drivesCmd.Flags().Bool("benchmark", false, "enable the write/read probe tier")
	drivesCmd.Flags().Bool("json", false, "emit the inventory as JSON")
	rootCmd.AddCommand(drivesCmd)
}

// driveVerdict pairs a mount path with its detection result for output.
type driveVerdict struct {
	Path string `json:"path"`
	storage.Info
}

func runDrives(cmd *cobra.Command, args []string) error {
	benchmark, _ := cmd.Flags().GetBool("benchmark")
	asJSON, _ := cmd.Flags().GetBool("json")

	var benchSize int64
	if s := viper.GetString("storage.benchmark.size"); s != "" {
		var err error
		benchSize, err = types.ParseSize(s)
		if err != nil {
			return fmt.Errorf("invalid benchmark size %q: %w", s, err)
		}
	}

	detector, err := storage.NewDetector(storage.Config{
		Thresholds: storage.Thresholds{
			HDDWriteMax:  viper.GetFloat64("storage.thresholds.hdd_write_max"),
			NVMeWriteMin: viper.GetFloat64("storage.thresholds.nvme_write_min"),
			NVMeReadMin:  viper.GetFloat64("storage.thresholds.nvme_read_min"),
			SSDWriteMin:  viper.GetFloat64("storage.thresholds.ssd_write_min"),
		},
		BenchmarkSize:    benchSize,
		DisableBenchmark: !benchmark,
	})
	if err != nil {
		return err
	}

	volumes, err := storage.ListVolumes()
	if err != nil {
		return fmt.Errorf("failed to list volumes: %w", err)
	}
	if len(volumes) == 0 {
		printInfo("No volumes found")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verdicts := make([]driveVerdict, 0, len(volumes))
	for _, vol := range volumes {
		if ctx.Err() != nil {
			break
		}
		printVerbose("Analyzing %s", vol)
		verdicts = append(verdicts, driveVerdict{
			Path: vol,
			Info: detector.AnalyzePath(ctx, vol),
		})
	}

	if asJSON {
		data, err := json.MarshalIndent(verdicts, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal inventory: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tTYPE\tBUS\tTHREADS\tCONFIDENCE\tMETHOD")
	for _, v := range verdicts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n",
			v.Path, v.Type, v.Bus, v.Threads, v.Confidence, v.Method)
	}
	return w.Flush()
}
