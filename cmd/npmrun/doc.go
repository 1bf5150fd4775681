// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the npmrun command line interface.
//
// Every command resolves a start path, loads configuration, and then asks the
// discovery engine or the context analyzer for an answer. Commands only print;
// package scripts are listed and never executed.
package cmd
