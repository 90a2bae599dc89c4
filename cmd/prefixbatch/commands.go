package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lakestream-io/prefixbatch/pkg/storage"
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <s3://bucket/prefix>",
		Short: "List the keys of the working set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(func(ctx context.Context, d deps) error {
				keys, err := d.Batch.Context(args[0]).List(ctx)
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Println(key)
				}
				return nil
			})
		},
	}
}

func newJoinCommand() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "join <s3://bucket/prefix>",
		Short: "Concatenate every object body in the working set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(func(ctx context.Context, d deps) error {
				joined, err := d.Batch.Context(args[0]).Join(ctx, delimiter)
				if err != nil {
					return err
				}
				fmt.Println(joined)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", "\n", "delimiter between bodies")
	return cmd
}

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <s3://bucket/prefix>",
		Short: "Delete empty objects under the prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(func(ctx context.Context, d deps) error {
				return d.Batch.Context(args[0]).Clean(ctx)
			})
		},
	}
}

func newCatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <s3://bucket/key>",
		Short: "Print a single object body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(func(ctx context.Context, d deps) error {
				loc := storage.ParseLocation(args[0])
				if !loc.IsStore() {
					return errors.Wrap(storage.ErrNotStoreLocation, args[0])
				}

				body, err := d.Client.Get(ctx, loc.Bucket, loc.Prefix)
				if err != nil {
					return err
				}
				fmt.Print(string(body))
				return nil
			})
		},
	}
}
