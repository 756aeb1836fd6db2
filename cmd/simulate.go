package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/careconnect-ai/careconnect/internal/catalog"
	"github.com/careconnect-ai/careconnect/internal/logging"
	"github.com/careconnect-ai/careconnect/internal/wizard"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the device wizard without the UI and print the result",
	Example: `  careconnect simulate --device fitbit --select fb2 \
    --answer Mum --answer Son/Daughter --answer 70-79 --condition Diabetes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, closeLog, err := logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("start logging: %w", err)
		}
		defer closeLog()

		lookup, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		device, _ := cmd.Flags().GetString("device")
		category, err := catalog.ParseCategory(device)
		if err != nil {
			return err
		}
		selectID, _ := cmd.Flags().GetString("select")
		answers, _ := cmd.Flags().GetStringArray("answer")
		conditions, _ := cmd.Flags().GetStringArray("condition")

		h := wizard.Headless{
			Machine: wizard.NewMachine(lookup, nil),
			Config:  wizardConfig(cfg),
			Logger:  logger,
		}
		if realtime, _ := cmd.Flags().GetBool("realtime"); realtime {
			h.Sleep = wizard.SleepContext
		}

		result, err := h.Run(cmd.Context(), wizard.Script{
			Category:   category,
			DeviceID:   selectID,
			Answers:    answers,
			Conditions: conditions,
		})
		if err != nil {
			return fmt.Errorf("simulate: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	f := simulateCmd.Flags()
	f.String("device", "fitbit", "Device category: fitbit, applewatch, other")
	f.String("select", "", "Device id to connect (default first discovered)")
	f.StringArray("answer", nil, "Answer to the next single-choice question, in order")
	f.StringArray("condition", nil, "Health condition to select (repeatable)")
	f.Bool("realtime", false, "Wait out the simulated discovery and connect delays")
}
