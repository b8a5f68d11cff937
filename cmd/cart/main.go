// cmd/cart/main.go
package main

import (
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront/cmd/cart/cmd"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true
	cmd.Execute()
}
