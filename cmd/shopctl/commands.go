package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	grpcsvc "github.com/vladislavdragonenkov/partshop/internal/service/grpc"
	"github.com/vladislavdragonenkov/partshop/internal/service/invoice"
)

// execute выполняет одну команду против ShopService и печатает результат в out.
func execute(ctx context.Context, client *grpcsvc.ShopServiceClient, name string, args []string, out io.Writer) error {
	switch name {
	case "products":
		return listProducts(ctx, client, args, out)
	case "product":
		id, err := idArg(args, 0)
		if err != nil {
			return err
		}
		resp, err := client.GetProduct(ctx, &grpcsvc.GetProductRequest{ID: id})
		if err != nil {
			return err
		}
		p := resp.Product
		_, err = fmt.Fprintf(out, "#%d %s\nprice: %s\nimage: %s\n", p.ID, p.Name, invoice.FormatJMD(p.Price), p.Image)
		return err
	case "options":
		return filterOptions(ctx, client, args, out)
	case "add":
		id, err := idArg(args, 0)
		if err != nil {
			return err
		}
		return cartPrinter(out)(client.AddToCart(ctx, &grpcsvc.AddToCartRequest{ProductID: id}))
	case "qty":
		id, err := idArg(args, 0)
		if err != nil {
			return err
		}
		if len(args) < 2 {
			return fmt.Errorf("%w: qty <id> <quantity>", errUsage)
		}
		return cartPrinter(out)(client.SetCartQuantity(ctx, &grpcsvc.SetCartQuantityRequest{ProductID: id, RawQuantity: args[1]}))
	case "remove":
		id, err := idArg(args, 0)
		if err != nil {
			return err
		}
		return cartPrinter(out)(client.RemoveFromCart(ctx, &grpcsvc.RemoveFromCartRequest{ProductID: id}))
	case "clear":
		return cartPrinter(out)(client.ClearCart(ctx, &grpcsvc.ClearCartRequest{}))
	case "cart":
		return cartPrinter(out)(client.GetCart(ctx, &grpcsvc.GetCartRequest{}))
	case "checkout":
		return confirmCheckout(ctx, client, args, out)
	case "invoice":
		resp, err := client.GetLastInvoice(ctx, &grpcsvc.GetLastInvoiceRequest{})
		if err != nil {
			return err
		}
		if !resp.Found {
			_, err = fmt.Fprintln(out, "no invoice yet")
			return err
		}
		_, err = io.WriteString(out, resp.Text)
		return err
	case "register":
		return register(ctx, client, args, out)
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("%w: login <username> <password>", errUsage)
		}
		resp, err := client.Login(ctx, &grpcsvc.LoginRequest{Username: args[0], Password: args[1]})
		if err != nil {
			return err
		}
		return printSession(resp, out)
	case "logout":
		if _, err := client.Logout(ctx, &grpcsvc.LogoutRequest{}); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "logged out")
		return err
	case "whoami":
		resp, err := client.CurrentSession(ctx, &grpcsvc.CurrentSessionRequest{})
		if err != nil {
			return err
		}
		return printSession(resp, out)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func idArg(args []string, index int) (int, error) {
	if len(args) <= index {
		return 0, fmt.Errorf("%w: product id is required", errUsage)
	}
	id, err := strconv.Atoi(strings.TrimSpace(args[index]))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid product id %q", errUsage, args[index])
	}
	return id, nil
}

func subcommandFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func listProducts(ctx context.Context, client *grpcsvc.ShopServiceClient, args []string, out io.Writer) error {
	var req grpcsvc.ListProductsRequest
	fs := subcommandFlags("products")
	fs.StringVar(&req.Brand, "brand", "", "")
	fs.StringVar(&req.Model, "model", "", "")
	fs.StringVar(&req.Part, "part", "", "")
	fs.StringVar(&req.Year, "year", "", "")
	fs.StringVar(&req.Query, "q", "", "")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	resp, err := client.ListProducts(ctx, &req)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE")
	for _, p := range resp.Products {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, invoice.FormatJMD(p.Price))
	}
	_, _ = fmt.Fprintf(tw, "\t%d products\t\n", resp.Total)
	return tw.Flush()
}

func filterOptions(ctx context.Context, client *grpcsvc.ShopServiceClient, args []string, out io.Writer) error {
	var req grpcsvc.GetFilterOptionsRequest
	fs := subcommandFlags("options")
	fs.StringVar(&req.Brand, "brand", "", "")
	fs.StringVar(&req.Model, "model", "", "")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	resp, err := client.GetFilterOptions(ctx, &req)
	if err != nil {
		return err
	}

	years := make([]string, 0, len(resp.Years))
	for _, y := range resp.Years {
		years = append(years, strconv.Itoa(y))
	}
	_, err = fmt.Fprintf(out, "brands: %s\nmodels: %s\nparts: %s\nyears: %s\n",
		strings.Join(resp.Brands, ", "),
		strings.Join(resp.Models, ", "),
		strings.Join(resp.Parts, ", "),
		strings.Join(years, ", "))
	return err
}

// cartPrinter печатает ответ с корзиной в виде таблицы с итогами.
func cartPrinter(out io.Writer) func(*grpcsvc.CartResponse, error) error {
	return func(resp *grpcsvc.CartResponse, err error) error {
		if err != nil {
			return err
		}
		if len(resp.Lines) == 0 {
			_, werr := fmt.Fprintln(out, "cart is empty")
			return werr
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
		_, _ = fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tTOTAL\t")
		for _, l := range resp.Lines {
			_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t\n", l.ProductID, l.Name, invoice.FormatJMD(l.UnitPrice), l.Quantity, invoice.FormatJMD(l.LineTotal))
		}
		_, _ = fmt.Fprintf(tw, "\t\t\tSubtotal\t%s\t\n", invoice.FormatJMD(resp.Subtotal))
		_, _ = fmt.Fprintf(tw, "\t\t\tDiscount\t%s\t\n", invoice.FormatJMD(resp.Discount))
		_, _ = fmt.Fprintf(tw, "\t\t\tTax\t%s\t\n", invoice.FormatJMD(resp.Tax))
		_, _ = fmt.Fprintf(tw, "\t\t\tTotal\t%s\t\n", invoice.FormatJMD(resp.Total))
		_, _ = fmt.Fprintf(tw, "\t\t\tItems\t%d\t\n", resp.Count)
		return tw.Flush()
	}
}

func confirmCheckout(ctx context.Context, client *grpcsvc.ShopServiceClient, args []string, out io.Writer) error {
	var req grpcsvc.ConfirmCheckoutRequest
	fs := subcommandFlags("checkout")
	fs.StringVar(&req.Name, "name", "", "")
	fs.StringVar(&req.Address, "address", "", "")
	fs.StringVar(&req.Phone, "phone", "", "")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	resp, err := client.ConfirmCheckout(ctx, &req)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "order %s confirmed, total %s\n", resp.Invoice.ID, invoice.FormatJMD(resp.Invoice.Total))
	return err
}

func register(ctx context.Context, client *grpcsvc.ShopServiceClient, args []string, out io.Writer) error {
	var req grpcsvc.RegisterRequest
	fs := subcommandFlags("register")
	fs.StringVar(&req.Username, "username", "", "")
	fs.StringVar(&req.Password, "password", "", "")
	fs.StringVar(&req.Email, "email", "", "")
	fs.StringVar(&req.FullName, "fullname", "", "")
	fs.StringVar(&req.DOB, "dob", "", "")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if _, err := client.Register(ctx, &req); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "registered %s\n", req.Username)
	return err
}

func printSession(resp *grpcsvc.SessionResponse, out io.Writer) error {
	if !resp.LoggedIn {
		_, err := fmt.Fprintln(out, "not logged in")
		return err
	}
	_, err := fmt.Fprintf(out, "%s (%s) <%s>\n", resp.Username, resp.FullName, resp.Email)
	return err
}
