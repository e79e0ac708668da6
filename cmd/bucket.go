package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Manage buckets",
	Long:  `Create, delete, list and check buckets directly against the configured storage.`,
}

var bucketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all buckets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		infos, err := app.bucketService().ListBucketInfo(cmd.Context())
		if err != nil {
			return err
		}
		for _, info := range infos {
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", info.Name, info.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var bucketCreateCmd = &cobra.Command{
	Use:   "create [bucket]",
	Short: "Create a bucket if it does not exist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		if err := app.bucketService().CreateBucket(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Bucket created successfully.")
		return nil
	},
}

var bucketDeleteCmd = &cobra.Command{
	Use:   "delete [bucket]",
	Short: "Delete an empty bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		if err := app.bucketService().DeleteBucket(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Bucket deleted successfully.")
		return nil
	},
}

var bucketExistsCmd = &cobra.Command{
	Use:   "exists [bucket]",
	Short: "Check whether a bucket exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		exists, err := app.bucketService().BucketExists(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), exists)
		return nil
	},
}

func init() {
	bucketCmd.AddCommand(bucketListCmd, bucketCreateCmd, bucketDeleteCmd, bucketExistsCmd)
	RootCmd.AddCommand(bucketCmd)
}
