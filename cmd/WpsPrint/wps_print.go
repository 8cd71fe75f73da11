// Package main es el punto de entrada de WPS Print.
// WPS Print abre un documento de oficina con WPS Office, configura la
// impresora y la página, lo imprime y libera la sesión de automatización.
package main

import (
	"os"

	"github.com/adcondev/wps-print/cmd/WpsPrint/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
