// denovo: Bayesian de novo variant calling for parent-child trios.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/exascience/denovo/blob/master/LICENSE.txt>.

package cmd

import (
	"flag"
	"log"
	"os"

	"github.com/exascience/denovo/intervals"
)

// BedToElsitesHelp is the help string for this command.
const BedToElsitesHelp = "\nbed-to-elsites parameters:\n" +
	"denovo bed-to-elsites bed-file elsites-file\n" +
	"[--log-path path]\n"

// BedToElsites implements the denovo bed-to-elsites command, which
// converts target regions to the format that call loads fastest.
func BedToElsites() error {
	env, err := LoadEnvironment()
	if err != nil {
		return err
	}

	var logPath string

	var flags flag.FlagSet
	flags.StringVar(&logPath, "log-path", env.LogPath, "write log files to the specified directory")
	parseFlags(&flags, 4, BedToElsitesHelp)

	input := getFilename(os.Args[2], BedToElsitesHelp)
	output := getFilename(os.Args[3], BedToElsitesHelp)

	if err := setLogOutput(logPath); err != nil {
		return err
	}

	inter, err := intervals.FromBedFile(input)
	if err != nil {
		return err
	}
	var n int
	for _, ivals := range inter {
		n += len(ivals)
	}
	log.Printf("Writing %v regions on %v chromosomes to %v.\n", n, len(inter), output)
	return intervals.ToElsitesFile(inter, output)
}
