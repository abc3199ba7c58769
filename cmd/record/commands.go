package record

import (
	"encoding/json"
	"fmt"

	"github.com/ValentinKolb/dStore/cmd/util"
	"github.com/ValentinKolb/dStore/lib/store"
	"github.com/ValentinKolb/dStore/lib/store/codec"
	"github.com/spf13/cobra"
)

func init() {
	putCmd.Flags().String("key-field", "id", util.WrapString("Name of the field holding the key, it is set to [key] before storing"))
}

var (
	getCmd = &cobra.Command{
		Use:   "get [namespace] [key]",
		Short: "Prints the record stored for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, key := args[0], args[1]
			m, ok, err := storage(namespace).Read(key)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no record for key %s in namespace %s", key, namespace)
			}
			out, err := json.MarshalIndent(m, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	putCmd = &cobra.Command{
		Use:   "put [namespace] [key] [json]",
		Short: "Stores a json object as record for a key, replacing any prior record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, key, body := args[0], args[1], args[2]
			keyField, err := cmd.Flags().GetString("key-field")
			if err != nil {
				return err
			}
			data, err := codec.NewJSONCodec().Decode([]byte(body))
			if err != nil {
				return fmt.Errorf("invalid record: %w", err)
			}

			s := storage(namespace)
			if err := s.Store(store.NewMappingRecord(keyField, key, data)); err != nil {
				return err
			}
			path, err := s.PathFor(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", path)
			return nil
		},
	}
	hasCmd = &cobra.Command{
		Use:   "has [namespace] [key]",
		Short: "Checks if a record exists for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, key := args[0], args[1]
			found, err := storage(namespace).HasSaved(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key=%s, found=%t\n", key, found)
			return nil
		},
	}
	pathCmd = &cobra.Command{
		Use:   "path [namespace] [key]",
		Short: "Prints the file a record is (or would be) stored in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace, key := args[0], args[1]
			path, err := storage(namespace).PathFor(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
)
