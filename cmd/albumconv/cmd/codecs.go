package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alexmbird/albumconv/pkg/codec"
)

// codecsCmd represents the codecs command
var codecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "List available target codecs",
	RunE:  runCodecs,
}

func init() {
	rootCmd.AddCommand(codecsCmd)
}

type codecInfo struct {
	Name           string `json:"name"`
	Extension      string `json:"extension"`
	DefaultQuality string `json:"default_quality"`
	Library        string `json:"library"`
	GainTool       string `json:"gain_tool"`
}

func runCodecs(cmd *cobra.Command, args []string) error {
	infos := make([]codecInfo, 0, len(codec.Names()))
	for _, name := range codec.Names() {
		s, err := codec.Lookup(name)
		if err != nil {
			return err
		}
		infos = append(infos, codecInfo{
			Name:           s.Name(),
			Extension:      s.Extension(),
			DefaultQuality: s.DefaultQuality(),
			Library:        s.Library(),
			GainTool:       s.GainTool(),
		})
	}

	if IsJSONOutput() {
		output, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Codec", "Extension", "Default Quality", "Encoder Library", "Gain Tool")
	for _, info := range infos {
		table.Append(info.Name, info.Extension, info.DefaultQuality, info.Library, info.GainTool)
	}
	table.Render()
	return nil
}
