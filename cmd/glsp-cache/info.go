package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MilkTool/glsp/cache"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Summarize a cache file without fully decoding it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			fatal(err)
		}
		log.Debug().Str("path", path).Int("bytes", len(data)).Msg("read cache file")

		stats, err := cache.ReadStats(data)
		if err != nil {
			fatal(err)
		}

		switch viper.GetString("output") {
		case "json":
			out, err := json.MarshalIndent(infoReport{
				File:         path,
				FileBytes:    len(data),
				PayloadBytes: stats.PayloadBytes,
				Compressed:   stats.Compressed,
				Actions:      stats.Actions,
				Instrs:       stats.Instrs,
				Spans:        stats.Spans,
				Filenames:    stats.Filenames,
				Stays:        stats.Stays,
			}, "", "  ")
			if err != nil {
				fatal(err)
			}
			fmt.Println(string(out))
		case "text", "":
			printInfoText(path, len(data), stats)
		default:
			fatal(fmt.Sprintf("unknown output format: %s", viper.GetString("output")))
		}
	},
}

type infoReport struct {
	File         string `json:"file"`
	FileBytes    int    `json:"file_bytes"`
	PayloadBytes int    `json:"payload_bytes"`
	Compressed   bool   `json:"compressed"`
	Actions      int    `json:"actions"`
	Instrs       int    `json:"instrs"`
	Spans        int    `json:"spans"`
	Filenames    int    `json:"filenames"`
	Stays        int    `json:"stays"`
}

func printInfoText(path string, fileBytes int, stats *cache.Stats) {
	fmt.Println(bold("%s", path))
	encoding := "raw"
	if stats.Compressed {
		encoding = "deflate"
	}
	fmt.Printf("  payload:   %s (%d bytes on disk, %s)\n",
		cyan("%d bytes", stats.PayloadBytes), fileBytes, encoding)
	fmt.Printf("  actions:   %d\n", stats.Actions)
	fmt.Printf("  instrs:    %d\n", stats.Instrs)
	fmt.Printf("  spans:     %d\n", stats.Spans)
	fmt.Printf("  filenames: %d\n", stats.Filenames)
	fmt.Printf("  stays:     %d\n", stats.Stays)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
