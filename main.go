package main

import "github.com/Acex619/gusto-food-scanner/cmd/gusto"

func main() {
	gusto.Execute()
}
