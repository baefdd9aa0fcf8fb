package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/cmd/bootstrap"

	"github.com/sirupsen/logrus"
)

func main() {
	once := flag.Bool("once", false, "dispatch due reminders once and exit")
	flag.Parse()

	app, err := bootstrap.NewReminderJob()
	if err != nil {
		logrus.Fatalf("Failed to initialize reminder dispatcher: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		result, err := app.ReminderJob.RunOnce(ctx)
		if err != nil {
			logrus.Errorf("Reminder dispatch failed: %v", err)
			return
		}
		logrus.WithField("result", result).Info("Reminder dispatch completed")
		return
	}

	if err := app.ReminderJob.Start(); err != nil {
		logrus.Fatalf("Failed to start reminder dispatcher: %v", err)
	}

	<-ctx.Done()
	logrus.Info("Stopping reminder dispatcher...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	app.ReminderJob.Stop(shutdownCtx)
}
