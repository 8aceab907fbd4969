package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookcatalog/internal/application/book"
	"github.com/xiebiao/bookcatalog/internal/infrastructure/config"
	"github.com/xiebiao/bookcatalog/internal/interface/http/dto"
	"github.com/xiebiao/bookcatalog/pkg/logger"
	"github.com/xiebiao/bookcatalog/pkg/mq"
)

// configLoader 按目录查找config.yaml
type configLoader func(paths ...string) (*config.Config, error)

// newRootCmd 构造命令树,out为结果输出位置
func newRootCmd(load configLoader, out io.Writer) *cobra.Command {
	var (
		configDir string
		cfg       *config.Config
		log       = zap.NewNop()
	)

	rootCmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Manage the book catalog from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = load(configDir, ".")
			if err != nil {
				return err
			}
			// 日志写stderr,stdout只留给命令结果
			log = logger.NewWithWriter(cmd.ErrOrStderr(), logger.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
			})
			zap.ReplaceGlobals(log)
			return nil
		},
	}
	rootCmd.SetOut(out)
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "./config", "directory containing config.yaml")

	// withApp 为每条命令组装用例并在结束后释放
	withApp := func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.close()
			return run(cmd, a, args)
		}
	}

	importCmd := &cobra.Command{
		Use:   "import [code...]",
		Short: "Import editions from OpenLibrary by edition code",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			result := a.storeOpenLibBooks.Execute(cmd.Context(), appbook.StoreOpenLibBooksRequest{Codes: args})
			return printJSON(cmd.OutOrStdout(), dto.NewStoreOpenLibBooksResponse(result))
		}),
	}

	var file string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a book from a JSON document (--file, or stdin when omitted)",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			r := cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var req dto.CreateBookRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("invalid book document: %w", err)
			}
			result, err := a.createBook.Execute(cmd.Context(), req.ToUseCase())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), &dto.CreateBookResponse{ID: result.ID, Success: result.Message})
		}),
	}
	createCmd.Flags().StringVarP(&file, "file", "f", "", "path to the book JSON document")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every book with its authors and works",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			result, err := a.listBooks.Execute(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.NewBookListResponse(result.Books))
		}),
	}

	var (
		authorName string
		workTitle  string
		minPages   int
	)
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search books by author name, work title and minimum page count",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			req := appbook.SearchBooksRequest{Author: authorName, Work: workTitle}
			if cmd.Flags().Changed("min-pages") {
				req.MinPages = &minPages
			}
			if req.Author == "" && req.Work == "" && req.MinPages == nil {
				return fmt.Errorf("at least one of --author, --work, --min-pages is required")
			}
			result, err := a.searchBooks.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.NewBookListResponse(result.Books))
		}),
	}
	searchCmd.Flags().StringVar(&authorName, "author", "", "case-insensitive substring of an author name")
	searchCmd.Flags().StringVar(&workTitle, "work", "", "case-insensitive substring of a work title")
	searchCmd.Flags().IntVar(&minPages, "min-pages", 0, "minimum number of pages (inclusive)")

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a book and collect authors and works left without books",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			result, err := a.deleteBook.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), &dto.DeleteBookResponse{
				ID:                 result.ID,
				Success:            result.Message,
				CollectedAuthorIDs: result.CollectedAuthorIDs,
				CollectedWorkIDs:   result.CollectedWorkIDs,
			})
		}),
	}

	var queue string
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Print catalog events published to RabbitMQ until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, "topic", queue, []string{"book.*"})
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := cmd.OutOrStdout()
			return consumer.Consume(ctx, func(_ context.Context, routingKey string, body []byte) error {
				line, err := describeEvent(routingKey, body)
				if err != nil {
					// 格式错误的消息重新入队没有意义
					log.Warn("unreadable catalog event", zap.String("routing_key", routingKey), zap.Error(err))
					return nil
				}
				_, err = fmt.Fprintln(w, line)
				return err
			})
		},
	}
	watchCmd.Flags().StringVar(&queue, "queue", "catalogctl.watch", "durable queue bound to book.* events")

	rootCmd.AddCommand(importCmd, createCmd, listCmd, searchCmd, deleteCmd, watchCmd)
	return rootCmd
}

// describeEvent 把事件渲染成一行文本
func describeEvent(routingKey string, body []byte) (string, error) {
	switch routingKey {
	case appbook.RoutingKeyBookImported:
		var e appbook.BookImportedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s imported from %s authors=%v works=%v",
			e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), e.BookID, e.Source, e.AuthorIDs, e.WorkIDs), nil
	case appbook.RoutingKeyBookDeleted:
		var e appbook.BookDeletedEvent
		if err := json.Unmarshal(body, &e); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s deleted collected_authors=%v collected_works=%v",
			e.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), e.BookID, e.CollectedAuthorIDs, e.CollectedWorkIDs), nil
	default:
		return fmt.Sprintf("%s %s", routingKey, body), nil
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
