package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jaffee/commandeer/pflag"

	"github.com/lekhraj-d/catboost/load"
)

func main() {
	m := load.NewMain()
	if err := pflag.LoadEnv(m, "POOLLOAD_", nil); err != nil {
		log.Fatal(err)
	}
	if m.DryRun {
		schema, err := m.ResolveSchema()
		if err != nil {
			log.Printf("resolving schema: %v\n", err)
			return
		}
		fmt.Printf("Resolved columns:\n")
		for i, col := range schema.Columns {
			fmt.Printf("  %3d  %-12s %s\n", i, col.Role, col.Name)
		}
		fmt.Printf("%d features (%d categorical), %d baseline slots\n",
			schema.FeatureCount, len(schema.CatFeatures), schema.BaselineCount)
		return
	}

	if err := m.Run(); err != nil {
		m.Log().Errorf("Error running command: %v", err)
		os.Exit(1)
	}
}
