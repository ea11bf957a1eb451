package main

import (
	"fmt"
	"os"

	streamallocapi "streamalloc/api"
	"streamalloc/cmd"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "streamalloc",
		Short: "campaign stream-allocation engine",
	}
	root.AddCommand(serveCmd(), allocateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "start the allocation API",
		RunE: func(c *cobra.Command, args []string) error {
			apiHandler, cfg, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}
			return apiHandler.StartApi(cfg.Port)
		},
	}
}

func allocateCmd() *cobra.Command {
	var requestFile string
	var expression string

	c := &cobra.Command{
		Use:   "allocate",
		Short: "run an allocation dry-run from a request file",
		RunE: func(c *cobra.Command, args []string) error {
			apiHandler, _, err := cmd.InitializeDependencies()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(requestFile)
			if err != nil {
				return fmt.Errorf("failed to read request file: %w", err)
			}

			in, err := streamallocapi.AllocateInputFromJSON(data)
			if err != nil {
				return err
			}
			if expression != "" {
				in.ScoreExpression = expression
			}

			result, err := apiHandler.AllocationHandler.AllocateStreams(*in)
			if err != nil {
				return fmt.Errorf("failed to allocate streams: %w", err)
			}

			out, err := streamallocapi.AllocateResultToJSON(result)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	c.Flags().StringVarP(&requestFile, "file", "f", "", "path to allocate request json")
	c.Flags().StringVarP(&expression, "expression", "e", "", "override the ranking score expression")
	_ = c.MarkFlagRequired("file")
	return c
}
