// Package ui turns git lifecycle events into concise log lines for the operator.
package ui
