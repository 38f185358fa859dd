package main

import "github.com/JWang8249/credit-risk-pipeline/internal/cli"

func main() {
	cli.Execute()
}
