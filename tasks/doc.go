// Package tasks manages the lifecycle of ingestion tasks.
//
// A task is created Pending, moves to InProgress when its run starts, and
// ends in exactly one terminal state. The Manager enforces the transition
// rules and persists every change through the task repository, so status
// queries observe a consistent history. The Runner bounds how many
// scheduled collections execute concurrently while letting user-triggered
// runs start immediately.
package tasks
