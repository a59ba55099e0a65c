// garagectl is the operator CLI for the garage service.  Its demo
// subcommands fill or empty the database with representative data for
// local testing and demos.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/powertune/garage/internal/config"
	"github.com/powertune/garage/internal/database"
	"github.com/powertune/garage/internal/repository"
)

var customerNames = []string{
	"John Doe", "Jane Smith", "Michael Brown", "Emily Davis", "Chris Wilson",
	"Sarah Johnson", "David Lee", "Linda Martinez", "James Anderson", "Patricia Thomas",
}

type makeModels struct {
	make   string
	models []string
}

var makes = []makeModels{
	{"Volkswagen", []string{"Golf", "Passat", "Tiguan"}},
	{"Audi", []string{"A4", "Q5", "A3"}},
	{"Mercedes-Benz", []string{"C-Class", "E-Class", "GLA"}},
	{"BMW", []string{"3 Series", "5 Series", "X3"}},
	{"Nissan", []string{"Note", "X-Trail", "Navara"}},
	{"Toyota", []string{"Corolla", "Hilux", "Vitz"}},
}

type demoItem struct {
	name   string
	part   string
	qty    int
	price  float64
	labour float64
}

type demoCategory struct {
	category string
	items    []demoItem
}

var categories = []demoCategory{
	{"Diagnosis", []demoItem{
		{"OBD Scan", "OBD-001", 1, 2000, 500},
		{"Engine Check", "ENG-CHK", 1, 0, 1500},
	}},
	{"Suspension", []demoItem{
		{"Front Shock Absorber", "SHK-FR-123", 2, 7500, 2000},
		{"Control Arm", "CTRL-ARM-456", 2, 4500, 1200},
	}},
	{"Service Engine", []demoItem{
		{"Oil Filter", "OF-789", 1, 1200, 300},
		{"Engine Oil 5W-30", "EO-5W30", 4, 900, 0},
		{"Air Filter", "AF-321", 1, 1500, 200},
	}},
	{"Gearbox", []demoItem{
		{"ATF Fluid", "ATF-654", 5, 850, 1000},
		{"Gearbox Gasket", "GB-GSKT-987", 1, 1800, 500},
	}},
	{"Electrical", []demoItem{
		{"Battery", "BAT-555", 1, 9500, 300},
		{"Alternator", "ALT-888", 1, 14500, 1200},
	}},
	{"Coding Online", []demoItem{
		{"ECU Coding", "ECU-CODE", 1, 0, 3500},
		{"Key Programming", "KEY-PROG", 1, 0, 2500},
	}},
}

func main() {
	root := &cobra.Command{
		Use:   "garagectl",
		Short: "Operator tooling for the garage service",
	}

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Manage demo data",
	}
	demo.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Populate the database with demo customers, vehicles and visits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(addDemoData)
		},
	})
	demo.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Delete all customers, vehicles, visits and items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(removeDemoData)
		},
	})
	root.AddCommand(demo)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func withDB(fn func(ctx context.Context, env dbEnv) error) error {
	_ = godotenv.Load()
	cfg := config.Load()
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	return fn(ctx, dbEnv{
		customers: repository.NewCustomerRepo(db),
		vehicles:  repository.NewVehicleRepo(db),
		visits:    repository.NewVisitRepo(db),
		wipe:      func(ctx context.Context) error { return wipe(ctx, db) },
	})
}

type dbEnv struct {
	customers *repository.CustomerRepo
	vehicles  *repository.VehicleRepo
	visits    *repository.VisitRepo
	wipe      func(ctx context.Context) error
}

func addDemoData(ctx context.Context, env dbEnv) error {
	logrus.Info("adding demo data")
	if err := env.wipe(ctx); err != nil {
		return err
	}
	seq := 100
	for _, name := range customerNames {
		cust := &repository.Customer{
			Name:  name,
			Phone: fmt.Sprintf("07%08d", rand.Intn(90000000)+10000000),
			Email: demoEmail(name),
		}
		if err := env.customers.Create(ctx, cust); err != nil {
			return err
		}
		for vnum := 0; vnum < 2; vnum++ {
			mm := makes[rand.Intn(len(makes))]
			v := &repository.Vehicle{
				CustomerID: &cust.ID,
				Name:       mm.make,
				Model:      mm.models[rand.Intn(len(mm.models))],
				Plate:      fmt.Sprintf("%s%d%c", platePrefix(mm.make), seq, 'A'+vnum),
				VinNumber:  fmt.Sprintf("VIN%d%s", rand.Intn(90000)+10000, platePrefix(mm.make)),
				Type:       []string{"Mechanical", "Electrical", "Service"}[rand.Intn(3)],
				Status:     "Active",
				DateBooked: time.Now().AddDate(0, 0, -rand.Intn(365)-1).Format("2006-01-02"),
				Technician: []string{"Tech Demo", "Alex", "Sam", "Grace"}[rand.Intn(4)],
			}
			if err := env.vehicles.Create(ctx, v); err != nil {
				return err
			}
			seq++
			for _, cat := range pickTwo() {
				visit := &repository.ServiceVisit{
					VehicleID:     v.ID,
					Notes:         cat.category + " performed.",
					VisitCategory: cat.category,
					Labour:        float64(rand.Intn(4)) * 500,
				}
				items := make([]*repository.ServiceItem, 0, len(cat.items))
				for _, it := range cat.items {
					items = append(items, &repository.ServiceItem{
						ItemName:   it.name,
						PartNumber: it.part,
						Quantity:   it.qty,
						Price:      it.price,
						Labour:     it.labour,
					})
				}
				if err := env.visits.CreateWithItems(ctx, visit, items); err != nil {
					return err
				}
			}
		}
	}
	logrus.Info("demo data added")
	return nil
}

func removeDemoData(ctx context.Context, env dbEnv) error {
	logrus.Info("removing demo data")
	if err := env.wipe(ctx); err != nil {
		return err
	}
	logrus.Info("demo data removed")
	return nil
}

// wipe empties all demo-affected tables in foreign-key order.  Users are
// left untouched so logins keep working.
func wipe(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"service_items", "service_visits", "vehicles", "customers"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func demoEmail(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", ".") + "@demo.com"
}

func platePrefix(brand string) string {
	return strings.ToUpper(brand[:2])
}

func pickTwo() []demoCategory {
	i := rand.Intn(len(categories))
	j := rand.Intn(len(categories) - 1)
	if j >= i {
		j++
	}
	return []demoCategory{categories[i], categories[j]}
}
