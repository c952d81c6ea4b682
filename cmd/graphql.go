package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/term"

	"github.com/quillgraph/quill/internal/graph"
	"github.com/quillgraph/quill/internal/store"
)

var (
	queryJSON       bool
	queryVariables  string
	queryOperation  string
	querySchemaOnly bool
)

var graphqlCmd = &cobra.Command{
	Use:     "graphql <query>",
	Aliases: []string{"query"},
	Short:   "Execute a GraphQL query or mutation",
	Long: `Execute a GraphQL query or mutation against the configured database.

The argument should be a valid GraphQL query or mutation string.

Examples:
  # List all users
  quill graphql '{ users { id name balance } }'

  # Get a specific user with their profile
  quill graphql '{ user(id: "0b6a2b0e-3f3c-4c4d-9d3c-6b0f4a3f2e11") { name profile { yearOfBirth } } }'

  # Create a user
  quill graphql 'mutation { createUser(dto: {name: "Ada", balance: 10}) { id } }'

  # Use variables
  quill graphql -v '{"id": "0b6a2b0e-3f3c-4c4d-9d3c-6b0f4a3f2e11"}' 'query GetUser($id: UUID!) { user(id: $id) { name } }'

  # Read from stdin (useful for complex queries or escaping issues)
  cat query.graphql | quill graphql

  # Print the schema
  quill graphql --schema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return nil
		}
		// Allow 0 args if stdin has data, or exactly 1 arg
		if len(args) > 1 {
			return fmt.Errorf("accepts at most 1 argument (the GraphQL query)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Schema-only mode
		if querySchemaOnly {
			return printSchema(cmd.OutOrStdout())
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		} else {
			// Try to read from stdin
			stdinQuery, err := readFromStdin()
			if err != nil {
				return err
			}
			if stdinQuery == "" {
				return fmt.Errorf("no query provided (pass as argument or pipe to stdin)")
			}
			query = stdinQuery
		}

		// Parse variables if provided
		var variables map[string]any
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("invalid variables JSON: %w", err)
			}
		}

		s, closeStore, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		result, err := executeQuery(cmd.Context(), s, query, variables, queryOperation)
		if err != nil {
			return err
		}

		// Output
		out := cmd.OutOrStdout()
		if queryJSON {
			fmt.Fprintln(out, string(result))
		} else {
			prettyPrint(out, result, isTerminal(out))
		}
		return nil
	},
}

// readFromStdin reads the query from stdin if data is available.
func readFromStdin() (string, error) {
	// Check if stdin has data (is a pipe or file, not a terminal)
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("checking stdin: %w", err)
	}

	// If stdin is a terminal (no pipe), return empty
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// executeQuery runs a GraphQL operation against s.
// On success, it returns just the data portion of the response.
// On error, it returns an error so the CLI can handle it appropriately.
func executeQuery(ctx context.Context, s *store.Store, query string, variables map[string]any, operationName string) ([]byte, error) {
	exec := graph.NewExecutor(&graph.Resolver{Store: s, Logger: log}, cfg.GraphQL)

	resp := graph.Execute(ctx, exec, &graphql.RawParams{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	})
	if len(resp.Errors) > 0 {
		return nil, formatGraphQLErrors(resp.Errors)
	}

	return resp.Data, nil
}

// formatGraphQLErrors formats GraphQL errors into a single error.
func formatGraphQLErrors(errs gqlerror.List) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("graphql: %s", errs[0].Message)
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return fmt.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}

// prettyPrint writes indented JSON, coloured when color is set.
func prettyPrint(w io.Writer, data []byte, color bool) {
	out := pretty.Pretty(data)
	if color {
		out = pretty.Color(out, nil)
	}
	fmt.Fprint(w, string(out))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printSchema writes the GraphQL schema to w.
func printSchema(w io.Writer) error {
	schema, err := GetGraphQLSchema()
	if err != nil {
		return err
	}
	fmt.Fprint(w, schema)
	return nil
}

// GetGraphQLSchema returns the GraphQL schema as a string.
func GetGraphQLSchema() (string, error) {
	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(graph.Schema())

	return buf.String(), nil
}

func init() {
	graphqlCmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw JSON (no formatting)")
	graphqlCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	graphqlCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	graphqlCmd.Flags().BoolVar(&querySchemaOnly, "schema", false, "Print the GraphQL schema and exit")
	rootCmd.AddCommand(graphqlCmd)
}
