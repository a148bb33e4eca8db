// Command cldfs manages files in a Cloudinary product environment through
// the cldfs filesystem adapter.
//
// Usage:
//
//	cldfs ls -r images
//	cldfs put ./logo.png brand/logo.png
//	cldfs push ./site static -j 8
//	cldfs stat brand/logo.png -o json
//	cldfs config init
//
// Credentials come from the config file, CLDFS_* variables or CLOUDINARY_URL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, a.errorFormat, err)
		stop()
		os.Exit(1)
	}
}
