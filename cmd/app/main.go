package main

import (
	"github.com/openledgerhq/transfer-engine/internal/bootstrap"
	"github.com/openledgerhq/transfer-engine/pkg"
)

func main() {
	pkg.InitLocalEnvConfig()
	bootstrap.InitService().Run()
}
