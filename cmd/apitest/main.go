// apitest exercises the gateway REST endpoints against a live base URL.
//
// Read-only endpoints run by default; account creation, transfers, and
// contract calls only run when their flags are set.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aptosgrid/aptos-data/internal/api"
	"github.com/aptosgrid/aptos-data/internal/config"
)

func main() {
	baseURL := flag.String("url", config.DefaultBaseURL, "gateway base URL")
	address := flag.String("address", "", "address for balance lookup")
	create := flag.Bool("create", false, "create a new account")
	sender := flag.String("sender", "", "sender credential for a transfer")
	recipient := flag.String("recipient", "", "transfer recipient address")
	amount := flag.Float64("amount", 0, "transfer amount")
	contract := flag.String("contract", "", "contract address to call")
	method := flag.String("method", "", "contract method name")
	args := flag.String("args", "", "comma-separated contract arguments")
	flag.Parse()

	client := api.NewClient(*baseURL, api.WithTimeout(30*time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Gas estimate is always safe to fetch.
	fmt.Println("=== Gas Estimate ===")
	est, err := client.GetGasEstimate(ctx)
	if err != nil {
		log.Fatalf("GetGasEstimate failed: %v", err)
	}
	fmt.Printf("Standard: %d\n", est.GasEstimate)
	if est.PrioritizedGasEstimate > 0 {
		fmt.Printf("Prioritized: %d\n", est.PrioritizedGasEstimate)
	}

	if *create {
		fmt.Println("\n=== Create Account ===")
		acct, err := client.CreateAccount(ctx)
		if err != nil {
			log.Fatalf("CreateAccount failed: %v", err)
		}
		fmt.Printf("Address: %s\n", acct.Address)
		if *address == "" {
			*address = acct.Address
		}
	}

	if *address != "" {
		fmt.Printf("\n=== Balance (%s) ===\n", *address)
		bal, err := client.GetBalance(ctx, *address)
		if err != nil {
			log.Fatalf("GetBalance failed: %v", err)
		}
		fmt.Printf("Balance: %v\n", bal.Balance)
	}

	if *sender != "" && *recipient != "" {
		fmt.Printf("\n=== Send Transaction (%v -> %s) ===\n", *amount, *recipient)
		res, err := client.SendTransaction(ctx, *sender, *recipient, *amount)
		if err != nil {
			log.Fatalf("SendTransaction failed: %v", err)
		}
		fmt.Printf("Hash: %s\n", res.Hash)
		fmt.Printf("Status: %s\n", res.Status)
	}

	if *contract != "" && *method != "" {
		fmt.Printf("\n=== Call Contract (%s.%s) ===\n", *contract, *method)
		var callArgs []string
		if *args != "" {
			callArgs = strings.Split(*args, ",")
		}
		res, err := client.CallContract(ctx, *contract, *method, callArgs)
		if err != nil {
			log.Fatalf("CallContract failed: %v", err)
		}
		fmt.Printf("Result: %s\n", res.Result)
	}

	fmt.Println("\n=== Done ===")
}
