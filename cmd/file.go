package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"object-manager/feature/file"

	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage files",
	Long:  `Upload, download, list, delete and share files directly against the configured storage.`,
}

var fileListCmd = &cobra.Command{
	Use:   "list [bucket]",
	Short: "List object keys in a bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		keys, err := app.fileService().ListFiles(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

var uploadName string

var fileUploadCmd = &cobra.Command{
	Use:   "upload [bucket] [path]",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		name := uploadName
		if name == "" {
			name = filepath.Base(args[1])
		}

		result, err := app.fileService().UploadFile(cmd.Context(), args[0], file.Upload{
			Filename:    name,
			ContentType: fiberutils.GetMIME(filepath.Ext(name)),
			Size:        info.Size(),
			Body:        f,
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Bucket:     %s\n", result.Bucket)
		fmt.Fprintf(cmd.OutOrStdout(), "ETag:       %s\n", result.ETag)
		fmt.Fprintf(cmd.OutOrStdout(), "Version ID: %s\n", result.VersionID)
		return nil
	},
}

var downloadOutput string

var fileDownloadCmd = &cobra.Command{
	Use:   "download [bucket] [key]",
	Short: "Download a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}

		body, err := app.fileService().DownloadFile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		defer body.Close()

		out := downloadOutput
		if out == "" {
			out = filepath.Base(args[1])
		}
		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		n, err := io.Copy(w, body)
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		app.logger.Info("Downloaded file", zap.String("key", args[1]), zap.String("output", out), zap.Int64("bytes", n))
		return nil
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete [bucket] [key]",
	Short: "Delete a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		if err := app.fileService().DeleteFile(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "File deleted successfully.")
		return nil
	},
}

var fileURLCmd = &cobra.Command{
	Use:   "url [bucket] [filename]",
	Short: "Print a download URL valid for two hours",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		signed, err := app.fileService().GenerateFileURL(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), signed.URL)
		return nil
	},
}

var filePublicCmd = &cobra.Command{
	Use:   "public [bucket] [key]",
	Short: "Grant anonymous read access to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		if err := app.fileService().MakeObjectPublic(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), true)
		return nil
	},
}

var fileStatCmd = &cobra.Command{
	Use:   "stat [bucket] [key]",
	Short: "Show file metadata",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadAppContext()
		if err != nil {
			return err
		}
		stat, err := app.fileService().StatFile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Key:           %s\n", stat.Key)
		fmt.Fprintf(out, "Size:          %d\n", stat.Size)
		fmt.Fprintf(out, "ETag:          %s\n", stat.ETag)
		fmt.Fprintf(out, "Content-Type:  %s\n", stat.ContentType)
		fmt.Fprintf(out, "Last Modified: %s\n", stat.LastModified.Format("2006-01-02 15:04:05"))
		if stat.VersionID != "" {
			fmt.Fprintf(out, "Version ID:    %s\n", stat.VersionID)
		}
		return nil
	},
}

func init() {
	fileUploadCmd.Flags().StringVar(&uploadName, "name", "", "Filename to store under (defaults to the local file name)")
	fileDownloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "Output path, or - for stdout (defaults to the key's base name)")

	fileCmd.AddCommand(fileListCmd, fileUploadCmd, fileDownloadCmd, fileDeleteCmd, fileURLCmd, filePublicCmd, fileStatCmd)
	RootCmd.AddCommand(fileCmd)
}
