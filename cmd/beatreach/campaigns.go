package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/beatreach/beatreach/internal/config"
	"github.com/beatreach/beatreach/internal/export"
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Inspect and export saved campaigns",
}

func init() {
	campaignsCmd.PersistentFlags().StringVar(&dbPathOverride, "db", "",
		"Database path (overrides config and BEATREACH_DB_PATH)")
	campaignsCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	campaignsCmd.AddCommand(campaignsListCmd)
	campaignsCmd.AddCommand(campaignsExportCmd)
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved campaigns",
	Args:  cobra.NoArgs,
	RunE:  runCampaignsList,
}

var campaignsExportCmd = &cobra.Command{
	Use:   "export <campaign-id>",
	Short: "Upload a saved campaign to the configured archive bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsExport,
}

func runCampaignsList(cmd *cobra.Command, args []string) error {
	db, err := resolveStore()
	if err != nil {
		return err
	}
	defer db.Close()

	campaigns, err := db.ListCampaigns(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), campaigns)
	}

	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tCREATED\tINFLUENCERS\tDEGRADED")
	for _, c := range campaigns {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n",
			c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.InfluencerCount, c.Degraded)
	}
	return tw.Flush()
}

func runCampaignsExport(cmd *cobra.Command, args []string) error {
	campaignID := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := resolveStore()
	if err != nil {
		return err
	}
	defer db.Close()

	campaign, err := db.GetCampaign(cmd.Context(), campaignID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(campaign, "", "  ")
	if err != nil {
		return fmt.Errorf("encode campaign: %w", err)
	}

	uploader, err := export.NewUploader(cfg.Archive)
	if err != nil {
		return err
	}

	if err := uploader.Upload(cmd.Context(), campaign.ID, data); err != nil {
		return err
	}

	url, expiry, err := uploader.PresignedURL(cmd.Context(), campaign.ID)
	if err != nil {
		if errors.Is(err, export.ErrNotConfigured) {
			fmt.Fprintln(cmd.OutOrStdout(), "Archive storage not configured; nothing uploaded")
			return nil
		}
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      campaign.ID,
			"url":     url,
			"expires": expiry,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded campaign %s\nDownload (expires %s):\n%s\n",
		campaign.ID, expiry.Format("2006-01-02 15:04"), url)
	return nil
}
