package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"tvm_calculator/pkg/api/tvm"
	"tvm_calculator/pkg/core/calculator"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("[WARNING] Failed to load .env: %v\n", err)
	}

	catalog := calculator.Default()
	if path := os.Getenv("TVM_CATALOG"); path != "" {
		override, err := calculator.LoadCatalogFile(path)
		if err != nil {
			fmt.Printf("[WARNING] Failed to load catalog override: %v\n", err)
			fmt.Println("  Falling back to built-in catalog")
		} else {
			catalog = override
		}
	}
	fmt.Printf("[CATALOG] %d calculators: %v\n", len(catalog.Calculators), catalog.IDs())

	mux := http.NewServeMux()
	tvm.NewHandler(catalog).Register(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - GET  /api/tvm/calculators")
	fmt.Println("  - POST /api/tvm/calculate")
	fmt.Println("  - GET  /api/tvm/table?rate=5&periods=10&format=json|markdown|html")

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
