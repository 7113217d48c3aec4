package commands

import (
	"fmt"
	"os"
	"strings"

	"gamefinder-backend/lib/fetch"
	"gamefinder-backend/lib/sources/archive"
	"gamefinder-backend/lib/sources/epic"
	"gamefinder-backend/lib/sources/itch"
	"gamefinder-backend/lib/sources/steam"
	"gamefinder-backend/services/gamesearch"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showAll bool

func init() {
	searchCmd.Flags().BoolVarP(&showAll, "all", "a", false, "Print every hit instead of the preview.")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <title>...",
	Short: "Searches all free-game sources for a title.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts := fetch.Options{}
		scrapeOpts := fetch.Options{BypassCloudflare: true}

		service := gamesearch.NewService(
			epic.NewClient(fetch.NewClient("sources/epic/http", opts)),
			itch.NewClient(fetch.NewClient("sources/itch/http", scrapeOpts)),
			steam.NewClient(fetch.NewClient("sources/steam/http", scrapeOpts)),
			archive.NewClient(fetch.NewClient("sources/archive/http", opts)),
		)

		res, err := service.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}

		for _, src := range res.Sources {
			fmt.Printf("%s: %d hit(s), see more at %s\n", src.Source, src.TotalHits, src.MoreUrl)

			hits := src.Preview
			if showAll {
				hits = src.Hits
			}
			if len(hits) == 0 {
				continue
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Title", "Url"})
			for _, hit := range hits {
				t.AppendRow(table.Row{hit.Title, hit.Url})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()
		}
	},
}
