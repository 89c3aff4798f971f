// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/utils"
)

// Metric names carry the namespace of the registry that exports them.
var panels = []string{
	"increase(token_token_transfers[5s])/5",
	"increase(token_token_transfer_calls[5s])/5",
	"token_token_pending_transfers",
	"increase(token_token_resolved_reverted[5s])/5",
	"increase(token_token_refund_forfeitures[5s])/5",
	"increase(api_api_requests[5s])/5",
	"increase(ledgerdb_ledger_db_batch_commits[5s])/5",
}

type prometheusStaticConfig struct {
	Targets []string `yaml:"targets"`
}

type prometheusScrapeConfig struct {
	JobName       string                    `yaml:"job_name"`
	StaticConfigs []*prometheusStaticConfig `yaml:"static_configs"`
	MetricsPath   string                    `yaml:"metrics_path"`
}

type prometheusConfig struct {
	Global struct {
		ScrapeInterval     string `yaml:"scrape_interval"`
		EvaluationInterval string `yaml:"evaluation_interval"`
	} `yaml:"global"`
	ScrapeConfigs []*prometheusScrapeConfig `yaml:"scrape_configs"`
}

var prometheusCmd = &cobra.Command{
	Use: "prometheus",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var generatePrometheusCmd = &cobra.Command{
	Use:   "generate",
	Short: "Writes a prometheus config scraping the node and links a dashboard",
	RunE: func(*cobra.Command, []string) error {
		host, err := utils.GetHost(uri)
		if err != nil {
			return err
		}
		port, err := utils.GetPort(uri)
		if err != nil {
			return err
		}

		var c prometheusConfig
		c.Global.ScrapeInterval = "1s"
		c.Global.EvaluationInterval = "1s"
		c.ScrapeConfigs = []*prometheusScrapeConfig{
			{
				JobName: "ftledger",
				StaticConfigs: []*prometheusStaticConfig{
					{Targets: []string{fmt.Sprintf("%s:%s", host, port)}},
				},
				MetricsPath: server.BaseURL + "/" + rpc.MetricsEndpoint,
			},
		}
		b, err := yaml.Marshal(&c)
		if err != nil {
			return err
		}
		if err := os.WriteFile(prometheusFile, b, fsModeWrite); err != nil {
			return err
		}
		utils.Outf("{{green}}prometheus config:{{/}} %s\n", prometheusFile)

		// Panels are numbered by hand since prometheus skips panels that are
		// not numerically sorted.
		dashboard := prometheusBaseURI + "/graph"
		for i, panel := range panels {
			sep := "&"
			if i == 0 {
				sep = "?"
			}
			dashboard = fmt.Sprintf("%s%sg%d.expr=%s&g%d.tab=0&g%d.step_input=1&g%d.range_input=5m", dashboard, sep, i, url.QueryEscape(panel), i, i, i)
		}
		if !prometheusOpenBrowser {
			utils.Outf("{{orange}}pre-built dashboard:{{/}} %s\n", dashboard)
			utils.Outf("{{green}}prometheus cmd:{{/}} prometheus --config.file=%s\n", prometheusFile)
			return nil
		}
		return browser.OpenURL(dashboard)
	},
}
