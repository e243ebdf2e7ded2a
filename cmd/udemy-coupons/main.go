package main

import (
	"context"
	"udemy-coupons/cmd/udemy-coupons/commands"
	"udemy-coupons/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext(context.Background()))
}
