package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var recommendOutput string

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a --jobs value for this machine",
	Long: `Analyzes the host (CPU threads, memory) and recommends a concurrency
degree for convert. Encoders are CPU bound, so the baseline is one job
per logical CPU, capped so each job has memory headroom.`,
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringVarP(&recommendOutput, "format", "f", "text",
		"Output format: text, json, yaml")
}

type hostInfo struct {
	CPUModel   string `json:"cpu_model" yaml:"cpu_model"`
	CPUThreads int    `json:"cpu_threads" yaml:"cpu_threads"`
	RAMBytes   uint64 `json:"ram_bytes" yaml:"ram_bytes"`
	OS         string `json:"os" yaml:"os"`
	Arch       string `json:"arch" yaml:"arch"`
}

type recommendation struct {
	Host      hostInfo `json:"host" yaml:"host"`
	Jobs      int      `json:"jobs" yaml:"jobs"`
	Rationale string   `json:"rationale" yaml:"rationale"`
}

// memPerJob is the headroom budgeted per concurrent encode: the encoder
// process plus page cache for one source and one destination file.
const memPerJob = 256 << 20

func runRecommend(cmd *cobra.Command, args []string) error {
	threads, err := cpu.Counts(true)
	if err != nil || threads < 1 {
		threads = runtime.NumCPU()
	}

	model := ""
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		model = infos[0].ModelName
	}

	var ramBytes uint64
	if vm, err := mem.VirtualMemory(); err == nil {
		ramBytes = vm.Total
	}

	jobs := threads
	if ramBytes > 0 {
		if byMem := int(ramBytes / memPerJob); byMem < jobs {
			jobs = byMem
		}
	}
	if jobs < 1 {
		jobs = 1
	}

	rec := recommendation{
		Host: hostInfo{
			CPUModel:   model,
			CPUThreads: threads,
			RAMBytes:   ramBytes,
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
		},
		Jobs: jobs,
		Rationale: fmt.Sprintf("%d CPU threads, %d MiB RAM: one encode per thread, capped at one per 256 MiB",
			threads, ramBytes>>20),
	}

	switch recommendOutput {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rec)

	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(2)
		return encoder.Encode(rec)

	default: // text
		fmt.Println("Host:")
		fmt.Printf("  CPU: %s (%d threads)\n", rec.Host.CPUModel, rec.Host.CPUThreads)
		fmt.Printf("  RAM: %d MiB\n", rec.Host.RAMBytes>>20)
		fmt.Printf("  OS: %s/%s\n", rec.Host.OS, rec.Host.Arch)
		fmt.Println()
		fmt.Printf("Recommended: --jobs %d\n", rec.Jobs)
		fmt.Println()
		fmt.Println("Rationale:")
		fmt.Printf("  %s\n", rec.Rationale)
		return nil
	}
}
