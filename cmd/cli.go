package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/lairai/internal/config"
	"github.com/Alturino/lairai/internal/constants"
	"github.com/Alturino/lairai/internal/format"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/service"
	"github.com/Alturino/lairai/pkg/request"
	"github.com/Alturino/lairai/pkg/response"
)

// withDependencies runs fn with the services built from the named config.
// Operator commands only log warnings so their output stays readable.
func withDependencies(
	cmd *cobra.Command,
	configName string,
	fn func(c context.Context, deps *dependencies) error,
) error {
	c := cmd.Context()
	cfg, err := config.Load(c, configName)
	if err != nil {
		return err
	}
	logger := log.Get(cfg.Application.LogPath, cfg.Application.Env).
		Level(zerolog.WarnLevel).
		With().
		Str(log.KeyAppName, constants.APP_CLI).
		Str(log.KeyTag, "cmd "+cmd.Name()).
		Logger()
	c = logger.WithContext(c)

	deps, err := newDependencies(c, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	return fn(c, deps)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func newTablesCommand(configName *string) *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List tables and their occupancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, *configName, func(c context.Context, deps *dependencies) error {
				tables, err := deps.services.Tables.List(c, request.FindTables{Status: response.TableStatus(status)})
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\tBÀN\tTRẠNG THÁI")
				for _, table := range tables {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", table.ID, table.Name, format.TableStatusText(table.Status))
				}
				counts := service.CountTables(tables)
				fmt.Fprintf(tw, "\nTrống: %d\tCó khách: %d\tTổng: %d\n", counts.Available, counts.Occupied, counts.Total)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (available|occupied)")
	return cmd
}

func newMenuCommand(configName *string) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the menu grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, *configName, func(c context.Context, deps *dependencies) error {
				categories, err := deps.services.Menu.Grouped(c, search)
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd.OutOrStdout())
				for _, category := range categories {
					fmt.Fprintf(tw, "%s\n", category.Name)
					for _, item := range category.Items {
						fmt.Fprintf(tw, "  %d\t%s\t%s\n", item.ID, item.Name, deps.formatter.Currency(item.Price))
					}
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter items by name")
	return cmd
}

func newOrdersCommand(configName *string) *cobra.Command {
	var status, search string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders with their table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, *configName, func(c context.Context, deps *dependencies) error {
				orders, err := deps.services.Orders.List(c, request.FindOrders{
					Status: response.OrderStatus(status),
					Search: search,
				})
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd.OutOrStdout())
				fmt.Fprintln(tw, "HÓA ĐƠN\tBÀN\tGIỜ VÀO\tTỔNG\tTRẠNG THÁI")
				for _, order := range orders {
					fmt.Fprintf(
						tw,
						"#%d\t%s\t%s\t%s\t%s\n",
						order.ID,
						format.TableName(order),
						deps.formatter.DateTime(order.CheckIn),
						deps.formatter.Currency(order.Total()),
						format.OrderStatusText(order.Status),
					)
				}
				counts := service.CountOrders(orders)
				fmt.Fprintf(tw, "\nĐang phục vụ: %d\tHoàn thành: %d\tTổng: %d\n", counts.Pending, counts.Completed, counts.Total)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|completed|cancelled)")
	cmd.Flags().StringVar(&search, "search", "", "filter by table name or \"bàn <id>\"")
	return cmd
}

func newPaymentsCommand(configName *string) *cobra.Command {
	var today bool
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "List payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, *configName, func(c context.Context, deps *dependencies) error {
				var payments []response.Payment
				if today {
					summary, err := deps.services.Payments.Today(c, time.Now())
					if err != nil {
						return err
					}
					payments = summary.Payments
				} else {
					all, err := deps.services.Payments.List(c)
					if err != nil {
						return err
					}
					payments = all
				}
				tw := newTabWriter(cmd.OutOrStdout())
				fmt.Fprintln(tw, "MÃ\tHÓA ĐƠN\tTHỜI GIAN\tSỐ TIỀN\tPHƯƠNG THỨC")
				for _, payment := range payments {
					fmt.Fprintf(
						tw,
						"%d\t#%d\t%s\t%s\t%s\n",
						payment.ID,
						payment.OrderID,
						deps.formatter.DateTime(payment.PaidAt),
						deps.formatter.Currency(payment.Amount),
						format.PaymentMethodText(payment.PaymentMethod),
					)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&today, "today", false, "only payments made today")
	return cmd
}

func newRevenueCommand(configName *string) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Show revenue between two dates (yyyy-mm-dd)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDependencies(cmd, *configName, func(c context.Context, deps *dependencies) error {
				report, err := deps.services.Payments.Revenue(c, request.Revenue{StartDate: from, EndDate: to})
				if err != nil {
					return err
				}
				tw := newTabWriter(cmd.OutOrStdout())
				fmt.Fprintf(tw, "Từ ngày:\t%s\n", report.StartDate)
				fmt.Fprintf(tw, "Đến ngày:\t%s\n", report.EndDate)
				fmt.Fprintf(tw, "Tổng doanh thu:\t%s\n", deps.formatter.Currency(report.TotalRevenue))
				fmt.Fprintf(tw, "Số hóa đơn:\t%d\n", report.TotalOrders)
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "start date, yyyy-mm-dd")
	cmd.Flags().StringVar(&to, "to", "", "end date, yyyy-mm-dd")
	return cmd
}

func newSettleCommand(configName *string) *cobra.Command {
	return &cobra.Command{
		Use:   "settle <orderId>",
		Short: "Print the receipt of an order, then confirm and record a cash payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orderID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed parsing orderId=%s with error=%w", args[0], err)
			}
			return withDependencies(cmd, *configName, func(c context.Context, deps *dependencies) error {
				payment, err := deps.services.Settlement.Settle(
					c,
					orderID,
					service.WriterPrinter{W: cmd.OutOrStdout()},
					service.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()},
				)
				if err != nil {
					return err
				}
				fmt.Fprintf(
					cmd.OutOrStdout(),
					"Thanh toán thành công: %s (%s)\n",
					deps.formatter.Currency(payment.Amount),
					format.PaymentMethodText(payment.PaymentMethod),
				)
				return nil
			})
		},
	}
}
