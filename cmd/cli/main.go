// Command cli is an interactive terminal front end for the spendtrack API.
// It keeps a local mirror of the server state, applies every mutation
// optimistically, and rolls back on failure, reopening the form values for
// another attempt.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"spendtrack/internal/client"
	"spendtrack/internal/logger"
	"spendtrack/internal/models"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	baseURL := os.Getenv("SPENDTRACK_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api/v1"
	}

	if err := run(baseURL); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(baseURL string) error {
	api, err := client.NewHTTPClient(baseURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := api.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to reach server at %s: %w", baseURL, err)
	}

	stdin := bufio.NewScanner(os.Stdin)
	confirm := func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		if !stdin.Scan() {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
		return answer == "y" || answer == "yes"
	}

	store := client.NewStore()
	var dispatcher *client.Dispatcher
	controller := client.NewController(api, store,
		client.WithConfirm(confirm),
		client.WithBackgroundRefresh(func() {
			dispatcher.Enqueue(client.Intent{Kind: client.IntentRefresh})
		}),
	)
	dispatcher = client.NewDispatcher(controller)
	go dispatcher.Run(ctx)

	if err := dispatcher.Do(ctx, client.Intent{Kind: client.IntentLoad}); err != nil {
		return err
	}
	fmt.Println("spendtrack - type 'help' for commands")

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return nil
		}
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			printHelp()
		case "list":
			printTransactions(store.Transactions())
		case "plans":
			printPlans(store.Plans())
		case "categories":
			for _, c := range store.Categories() {
				fmt.Printf("  %3d  %s\n", c.ID, c.Name)
			}
		case "summary":
			printViews(controller.Views())
		case "add":
			handleResult(controller, dispatcher.Do(ctx, client.Intent{
				Kind:            client.IntentAddTransaction,
				TransactionForm: promptTransaction(stdin),
			}))
		case "edit":
			id, err := parseID(fields)
			if err != nil {
				fmt.Println(err)
				continue
			}
			handleResult(controller, dispatcher.Do(ctx, client.Intent{
				Kind:            client.IntentEditTransaction,
				ID:              id,
				TransactionForm: promptTransaction(stdin),
			}))
		case "delete":
			id, err := parseID(fields)
			if err != nil {
				fmt.Println(err)
				continue
			}
			handleResult(controller, dispatcher.Do(ctx, client.Intent{Kind: client.IntentRemoveTransaction, ID: id}))
		case "addplan":
			handleResult(controller, dispatcher.Do(ctx, client.Intent{
				Kind:     client.IntentAddPlan,
				PlanForm: promptPlan(stdin),
			}))
		case "delplan":
			id, err := parseID(fields)
			if err != nil {
				fmt.Println(err)
				continue
			}
			handleResult(controller, dispatcher.Do(ctx, client.Intent{Kind: client.IntentRemovePlan, ID: id}))
		case "addcat":
			if len(fields) < 2 {
				fmt.Println("usage: addcat <name>")
				continue
			}
			handleResult(controller, dispatcher.Do(ctx, client.Intent{
				Kind: client.IntentAddCategory,
				Name: strings.Join(fields[1:], " "),
			}))
		case "report":
			format := "excel"
			if len(fields) > 1 {
				format = fields[1]
			}
			data, err := api.DownloadReport(ctx, format)
			if err != nil {
				fmt.Printf("report failed: %v\n", err)
				continue
			}
			name := "report.xlsx"
			if format == "pdf" {
				name = "report.pdf"
			}
			if err := os.WriteFile(name, data, 0o644); err != nil {
				fmt.Printf("failed to write %s: %v\n", name, err)
				continue
			}
			fmt.Printf("saved %s (%d bytes)\n", name, len(data))
		case "refresh":
			handleResult(controller, dispatcher.Do(ctx, client.Intent{Kind: client.IntentRefresh}))
		default:
			fmt.Printf("unknown command %q, type 'help'\n", fields[0])
		}
	}
}

func parseID(fields []string) (uint, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s <id>", fields[0])
	}
	id, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", fields[1])
	}
	return uint(id), nil
}

func prompt(stdin *bufio.Scanner, label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	if !stdin.Scan() {
		return fallback
	}
	value := strings.TrimSpace(stdin.Text())
	if value == "" {
		return fallback
	}
	return value
}

func promptTransaction(stdin *bufio.Scanner) client.TransactionForm {
	return client.TransactionForm{
		Date:        prompt(stdin, "date (YYYY-MM-DD)", ""),
		Status:      prompt(stdin, "status (earned/spent)", "spent"),
		Category:    prompt(stdin, "category", ""),
		Amount:      prompt(stdin, "amount", ""),
		Currency:    prompt(stdin, "currency", "QAR"),
		Description: prompt(stdin, "description", ""),
	}
}

func promptPlan(stdin *bufio.Scanner) client.PlanForm {
	categories := prompt(stdin, "categories (comma separated, empty for all)", "")
	form := client.PlanForm{
		Type:        prompt(stdin, "type (monthly/custom)", "monthly"),
		Description: prompt(stdin, "description", ""),
		FromDate:    prompt(stdin, "from date (YYYY-MM-DD)", ""),
		ToDate:      prompt(stdin, "to date (YYYY-MM-DD)", ""),
		Amount:      prompt(stdin, "amount", ""),
	}
	if categories != "" {
		for _, name := range strings.Split(categories, ",") {
			form.Categories = append(form.Categories, strings.TrimSpace(name))
		}
	}
	return form
}

// handleResult surfaces a failed mutation and the reopened form values.
func handleResult(controller *client.Controller, err error) {
	if err == nil {
		printViews(controller.Views())
		return
	}
	fmt.Printf("failed: %v\n", err)
	form := controller.Form()
	if form.Open {
		fmt.Printf("your %s form values were kept, try again:\n  %+v\n", form.Kind, form.Values)
	}
}

func printTransactions(transactions []models.Transaction) {
	if len(transactions) == 0 {
		fmt.Println("  no transactions")
		return
	}
	for _, t := range transactions {
		fmt.Printf("  %3d  %s  %-6s  %-15s  %10s %s  %s\n",
			t.ID, t.Date.Format(models.DateLayout), t.Status, t.Category,
			t.Amount.StringFixed(2), t.Currency, t.Description)
	}
}

func printPlans(plans []models.Plan) {
	if len(plans) == 0 {
		fmt.Println("  no plans")
		return
	}
	for _, p := range plans {
		fmt.Printf("  %3d  %-7s  %s..%s  %10s left of %s  %-9s  %s  %v\n",
			p.ID, p.Type, p.FromDate.Format(models.DateLayout), p.ToDate.Format(models.DateLayout),
			p.LeftMoney.StringFixed(2), p.Amount.StringFixed(2), p.Status, p.Description, p.CategoryNames())
	}
}

func printViews(views client.Views) {
	fmt.Printf("earned %s, spent %s -> %s, budget: %s\n",
		views.Totals.Earned.StringFixed(2), views.Totals.Spent.StringFixed(2),
		views.Summary, views.Budget)
}

func printHelp() {
	fmt.Println(`commands:
  list                 show transactions
  plans                show plans
  categories           show categories
  summary              show derived totals and budget status
  add                  add a transaction (prompts for fields)
  edit <id>            edit a transaction
  delete <id>          delete a transaction (asks for confirmation)
  addplan              add a plan
  delplan <id>         delete a plan
  addcat <name>        add a category
  report [excel|pdf]   download a report
  refresh              reload state from the server
  quit`)
}
