package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/pph/pkg/adapters/fs"
	"github.com/aretw0/pph/pkg/hub"
)

var stateDiagram bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the hub's internal state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := openHub(cmd)
		if err != nil {
			return err
		}
		defer h.Close()

		st, _ := h.State().(hub.HubState)
		out := cmd.OutOrStdout()
		if stateDiagram {
			config := introspection.DefaultDiagramConfig()
			config.SecondaryID = "hub"
			config.SecondaryLabel = "Hub Topology"
			fmt.Fprintln(out, introspection.TreeDiagram(buildHubTree(st), config))
			return nil
		}
		return printJSON(out, st)
	},
}

type hubNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []hubNode
}

// buildHubTree maps the state onto introspection's default status classes.
func buildHubTree(st hub.HubState) hubNode {
	status := "pending"
	if st.Bootstrapped {
		status = "running"
	}

	storage := hubNode{
		Name:     "Storage",
		Status:   "running",
		Metadata: map[string]string{"type": st.StorageType},
	}
	if fsState, ok := st.Storage.(fs.StorageState); ok {
		storage.Metadata["path"] = fsState.Path
		storage.Metadata["cache"] = strconv.Itoa(fsState.CacheSize)
		watcher := "suspended"
		if fsState.WatcherActive {
			watcher = "running"
		}
		storage.Children = append(storage.Children, hubNode{
			Name:     "Watcher",
			Status:   watcher,
			Metadata: map[string]string{"type": "goroutine"},
		})
	}

	root := hubNode{
		Name:   "Hub",
		Status: status,
		Metadata: map[string]string{
			"type":  "process",
			"tab":   string(st.ActiveTab),
			"theme": string(st.Theme),
		},
		Children: []hubNode{storage},
	}
	for _, kind := range []string{"todos", "notes", "links", "images"} {
		root.Children = append(root.Children, hubNode{
			Name:     kind,
			Status:   "running",
			Metadata: map[string]string{"type": "container", "entries": strconv.Itoa(st.Counts[kind])},
		})
	}
	return root
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateDiagram, "diagram", false, "Print a Mermaid diagram instead of JSON")
}
