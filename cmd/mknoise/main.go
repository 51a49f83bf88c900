package main

import "github.com/MeKo-Tech/latticenoise/internal/cmd"

func main() {
	cmd.Execute()
}
