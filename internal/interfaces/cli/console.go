// Package cli implementa la consola de operación de LIPMS: inventario,
// pedidos, punto de venta, notificaciones, actividad y reportes.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/lipms-client/internal/application/activity"
	"github.com/jhoicas/lipms-client/internal/application/auth"
	"github.com/jhoicas/lipms-client/internal/application/dto"
	"github.com/jhoicas/lipms-client/internal/application/inventory"
	"github.com/jhoicas/lipms-client/internal/application/notifications"
	"github.com/jhoicas/lipms-client/internal/application/orders"
	"github.com/jhoicas/lipms-client/internal/application/pos"
	"github.com/jhoicas/lipms-client/internal/application/reports"
	"github.com/jhoicas/lipms-client/internal/application/settings"
	"github.com/jhoicas/lipms-client/internal/domain/entity"
)

// Deps stores y casos de uso que consume la consola.
type Deps struct {
	Auth          *auth.Store
	CustomerAuth  *auth.Store
	Inventory     *inventory.Store
	Orders        *orders.Store
	POS           *pos.Store
	Notifications *notifications.Store
	Activity      *activity.Store
	Settings      *settings.Store
	Reports       *reports.UseCase
}

// Console despacha los subcomandos de la consola.
type Console struct {
	deps    Deps
	out     io.Writer
	printer *message.Printer
}

// New construye la consola escribiendo en out.
func New(deps Deps, out io.Writer) *Console {
	return &Console{
		deps:    deps,
		out:     out,
		printer: message.NewPrinter(language.English),
	}
}

const usage = `uso: lipms <comando> [argumentos]

comandos:
  login <email> <password> [-customer]
  inventory list | low-stock | restock <id> <cantidad>
  orders list [-status s] | place <id:cantidad>... [-notes n] | dispatch <id> [-tracking t]
  pos add <id> | cart | checkout [-payment p] [-name n] | sales
  notifications [-recipient r] [-mark-all-read]
  activity [-limit n]
  report inventory <salida.pdf> | report sales <salida.pdf> [-from fecha] [-to fecha]
  settings show | set-pin <pin>
`

// Run ejecuta el subcomando indicado en args (sin el nombre del binario).
func (c *Console) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, usage)
		return nil
	}
	switch args[0] {
	case "login":
		return c.login(ctx, args[1:])
	case "inventory":
		return c.inventoryCmd(ctx, args[1:])
	case "orders":
		return c.ordersCmd(ctx, args[1:])
	case "pos":
		return c.posCmd(ctx, args[1:])
	case "notifications":
		return c.notificationsCmd(args[1:])
	case "activity":
		return c.activityCmd(args[1:])
	case "report":
		return c.reportCmd(ctx, args[1:])
	case "settings":
		return c.settingsCmd(args[1:])
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("comando desconocido: %s", args[0])
	}
}

func (c *Console) money(d decimal.Decimal) string {
	f, _ := d.Float64()
	return c.printer.Sprintf("$%.2f", f)
}

func (c *Console) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	customer := fs.Bool("customer", false, "iniciar sesión en el portal de clientes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("uso: login <email> <password> [-customer]")
	}

	store := c.deps.Auth
	if *customer {
		store = c.deps.CustomerAuth
	}
	user, err := store.Login(ctx, rest[0], rest[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "sesión iniciada: %s (%s)\n", user.Name, user.Role)
	return nil
}

func (c *Console) inventoryCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uso: inventory list | low-stock | restock <id> <cantidad>")
	}
	switch args[0] {
	case "list":
		c.deps.Inventory.FetchAll(ctx)
		for _, m := range c.deps.Inventory.Medicines() {
			marker := " "
			if m.IsLowStock() {
				marker = "!"
			}
			fmt.Fprintf(c.out, "%s %-6s %-30s %-14s %8s  stock %d\n",
				marker, m.ID, m.Name, m.Category, c.money(m.Price), m.Stock)
		}
		return nil
	case "low-stock":
		c.deps.Inventory.FetchAll(ctx)
		low := c.deps.Inventory.LowStock()
		if len(low) == 0 {
			fmt.Fprintln(c.out, "sin alertas de stock bajo")
			return nil
		}
		for _, m := range low {
			fmt.Fprintf(c.out, "%-6s %-30s stock %d (mínimo %d)\n", m.ID, m.Name, m.Stock, m.MinStockLevel)
		}
		return nil
	case "restock":
		if len(args) != 3 {
			return fmt.Errorf("uso: inventory restock <id> <cantidad>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("cantidad inválida: %s", args[2])
		}
		m, err := c.deps.Inventory.AddStock(ctx, args[1], qty)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s repuesto: stock %d\n", m.Name, m.Stock)
		return nil
	default:
		return fmt.Errorf("subcomando desconocido: inventory %s", args[0])
	}
}

func (c *Console) ordersCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uso: orders list | place | dispatch")
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("orders list", flag.ContinueOnError)
		status := fs.String("status", "", "filtrar por estado")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		c.deps.Orders.FetchAll(ctx)
		list := c.deps.Orders.Orders()
		if *status != "" {
			list = c.deps.Orders.ByStatus(entity.OrderStatus(*status))
		}
		for _, o := range list {
			tracking := ""
			if o.TrackingNumber != "" {
				tracking = " tracking " + o.TrackingNumber
			}
			fmt.Fprintf(c.out, "%-6s %-11s %8s  %s%s\n",
				o.ID, o.Status, c.money(o.TotalAmount), o.OrderDate.Format("02/01/2006"), tracking)
		}
		return nil
	case "place":
		fs := flag.NewFlagSet("orders place", flag.ContinueOnError)
		notes := fs.String("notes", "", "notas del pedido")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		items, err := parseOrderItems(fs.Args())
		if err != nil {
			return err
		}
		order, err := c.deps.Orders.Create(ctx, items, *notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "pedido #%s creado (%s) total %s\n", order.ID, order.Status, c.money(order.TotalAmount))
		return nil
	case "dispatch":
		fs := flag.NewFlagSet("orders dispatch", flag.ContinueOnError)
		tracking := fs.String("tracking", "", "número de guía")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return fmt.Errorf("uso: orders dispatch <id> [-tracking t]")
		}
		order, err := c.deps.Orders.Dispatch(ctx, fs.Arg(0), *tracking)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "pedido #%s despachado\n", order.ID)
		return nil
	default:
		return fmt.Errorf("subcomando desconocido: orders %s", args[0])
	}
}

// parseOrderItems interpreta pares id:cantidad.
func parseOrderItems(args []string) ([]dto.OrderItemInput, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("uso: orders place <id:cantidad>...")
	}
	var items []dto.OrderItemInput
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("línea inválida %q (formato id:cantidad)", arg)
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("cantidad inválida en %q", arg)
		}
		items = append(items, dto.OrderItemInput{MedicineID: parts[0], Quantity: qty})
	}
	return items, nil
}

func (c *Console) posCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uso: pos add | cart | checkout | sales")
	}
	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("uso: pos add <id>")
		}
		if err := c.deps.POS.AddToCart(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "agregado; total del carrito %s\n", c.money(c.deps.POS.CartTotal()))
		return nil
	case "cart":
		cart := c.deps.POS.Cart()
		if len(cart) == 0 {
			fmt.Fprintln(c.out, "carrito vacío")
			return nil
		}
		for _, it := range cart {
			fmt.Fprintf(c.out, "%-30s x%d a %s  = %s\n", it.MedicineName, it.Quantity, c.money(it.UnitPrice), c.money(it.Total))
		}
		fmt.Fprintf(c.out, "TOTAL %s\n", c.money(c.deps.POS.CartTotal()))
		return nil
	case "checkout":
		fs := flag.NewFlagSet("pos checkout", flag.ContinueOnError)
		payment := fs.String("payment", "cash", "método de pago")
		name := fs.String("name", "", "nombre del cliente")
		notes := fs.String("notes", "", "notas")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		sale, err := c.deps.POS.CompleteSale(ctx, *name, *payment, *notes)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "venta %s completada: %s\n", sale.SaleNumber, c.money(sale.TotalAmount))
		return nil
	case "sales":
		c.deps.POS.FetchSales(ctx)
		for _, s := range c.deps.POS.Sales() {
			fmt.Fprintf(c.out, "%-14s %s %-8s %s\n",
				s.SaleNumber, s.CreatedAt.Format("02/01/2006 15:04"), s.PaymentMethod, c.money(s.TotalAmount))
		}
		return nil
	default:
		return fmt.Errorf("subcomando desconocido: pos %s", args[0])
	}
}

func (c *Console) notificationsCmd(args []string) error {
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	recipient := fs.String("recipient", entity.AdminRecipient, "destinatario")
	markAll := fs.Bool("mark-all-read", false, "marcar todas como leídas")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *markAll {
		c.deps.Notifications.MarkAllAsRead(*recipient)
	}
	list := c.deps.Notifications.ByRecipient(*recipient)
	fmt.Fprintf(c.out, "%d sin leer\n", c.deps.Notifications.UnreadCount(*recipient))
	for _, n := range list {
		mark := "•"
		if n.Read {
			mark = " "
		}
		fmt.Fprintf(c.out, "%s [%s] %s — %s\n", mark, n.CreatedAt.Format("02/01 15:04"), n.Title, n.Message)
	}
	return nil
}

func (c *Console) activityCmd(args []string) error {
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	limit := fs.Int("limit", 10, "entradas a mostrar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	now := time.Now()
	for _, act := range c.deps.Activity.Recent(*limit) {
		fmt.Fprintf(c.out, "%-16s %s\n", activity.FormatTimeAgo(act.Timestamp, now), act.Message)
	}
	return nil
}

func (c *Console) reportCmd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("uso: report inventory <salida.pdf> | report sales <salida.pdf>")
	}
	switch args[0] {
	case "inventory":
		c.deps.Inventory.FetchAll(ctx)
		data, err := c.deps.Reports.InventoryPDF(ctx)
		if err != nil {
			return err
		}
		return c.writeReport(args[1], data)
	case "sales":
		fs := flag.NewFlagSet("report sales", flag.ContinueOnError)
		fromStr := fs.String("from", "", "fecha inicial (2006-01-02)")
		toStr := fs.String("to", "", "fecha final (2006-01-02)")
		if err := fs.Parse(args[2:]); err != nil {
			return err
		}
		from, to, err := parseRange(*fromStr, *toStr)
		if err != nil {
			return err
		}
		c.deps.POS.FetchSales(ctx)
		data, err := c.deps.Reports.SalesPDF(ctx, from, to)
		if err != nil {
			return err
		}
		return c.writeReport(args[1], data)
	default:
		return fmt.Errorf("subcomando desconocido: report %s", args[0])
	}
}

func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	if fromStr != "" {
		if from, err = time.Parse("2006-01-02", fromStr); err != nil {
			return from, to, fmt.Errorf("fecha inicial inválida: %s", fromStr)
		}
	}
	if toStr != "" {
		if to, err = time.Parse("2006-01-02", toStr); err != nil {
			return from, to, fmt.Errorf("fecha final inválida: %s", toStr)
		}
	}
	return from, to, nil
}

func (c *Console) writeReport(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir reporte: %w", err)
	}
	fmt.Fprintf(c.out, "reporte generado: %s (%d bytes)\n", path, len(data))
	return nil
}

func (c *Console) settingsCmd(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("uso: settings show | set-pin <pin>")
	}
	switch args[0] {
	case "show":
		s := c.deps.Settings.Settings()
		fmt.Fprintf(c.out, "farmacia: %s\nmoneda: %s\nalertas de stock bajo: %v\ndescuento máximo sin PIN: %s%%\n",
			s.PharmacyName, s.Currency, s.LowStockAlerts, s.MaxDiscountPct.String())
		return nil
	case "set-pin":
		if len(args) != 2 {
			return fmt.Errorf("uso: settings set-pin <pin>")
		}
		if err := c.deps.Settings.SetSupervisorPIN(args[1]); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "PIN de supervisor actualizado")
		return nil
	default:
		return fmt.Errorf("subcomando desconocido: settings %s", args[0])
	}
}
