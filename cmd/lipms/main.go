package main

import (
	"context"
	"os"

	"github.com/jhoicas/lipms-client/internal/application/activity"
	"github.com/jhoicas/lipms-client/internal/application/auth"
	"github.com/jhoicas/lipms-client/internal/application/inventory"
	"github.com/jhoicas/lipms-client/internal/application/notifications"
	"github.com/jhoicas/lipms-client/internal/application/orders"
	"github.com/jhoicas/lipms-client/internal/application/pos"
	"github.com/jhoicas/lipms-client/internal/application/reports"
	"github.com/jhoicas/lipms-client/internal/application/settings"
	"github.com/jhoicas/lipms-client/internal/events"
	"github.com/jhoicas/lipms-client/internal/infrastructure/localstore"
	infrapdf "github.com/jhoicas/lipms-client/internal/infrastructure/pdf"
	"github.com/jhoicas/lipms-client/internal/infrastructure/rest"
	"github.com/jhoicas/lipms-client/internal/interfaces/cli"
	"github.com/jhoicas/lipms-client/pkg/config"
	"github.com/jhoicas/lipms-client/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	snaps, err := localstore.New(cfg.State.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir estado local")
	}

	// Las sesiones viven en los stores de auth; el cliente REST toma el
	// token vigente de cualquiera de las dos (admin primero).
	var adminAuth, customerAuth *auth.Store
	client := rest.NewClient(cfg.API, func() string {
		if adminAuth != nil {
			if t := adminAuth.Token(); t != "" {
				return t
			}
		}
		if customerAuth != nil {
			return customerAuth.Token()
		}
		return ""
	}, log)

	authAPI := rest.NewAuthAPI(client)
	medicinesAPI := rest.NewMedicinesAPI(client)
	ordersAPI := rest.NewOrdersAPI(client)
	salesAPI := rest.NewSalesAPI(client)

	bus := events.NewBus(log)

	adminAuth = auth.NewStore(authAPI, snaps, localstore.KeyAuth, log)
	customerAuth = auth.NewStore(authAPI, snaps, localstore.KeyCustomerAuth, log)

	// Un 401 del backend invalida ambas sesiones locales.
	client.SetOnUnauthorized(func() {
		adminAuth.Logout()
		customerAuth.Logout()
	})

	inventoryStore := inventory.NewStore(medicinesAPI, snaps, bus, log)
	ordersStore := orders.NewStore(ordersAPI, snaps, bus, log)
	notificationsStore := notifications.NewStore(snaps, bus, log)
	activityStore := activity.NewStore(snaps, bus, log)
	settingsStore := settings.NewStore(snaps, log)
	posStore := pos.NewStore(salesAPI, inventoryStore, settingsStore, log)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportsUC := reports.NewUseCase(inventoryStore, posStore, pdfGenerator, func() string {
		return settingsStore.Settings().PharmacyName
	})

	// Cambios de snapshot hechos por otro proceso recargan el store afectado.
	watcher, err := localstore.NewWatcher(snaps, log)
	if err != nil {
		log.Fatal().Err(err).Msg("observar estado local")
	}
	defer watcher.Close()

	watcher.OnChange(localstore.KeyAuth, adminAuth.Reload)
	watcher.OnChange(localstore.KeyCustomerAuth, customerAuth.Reload)
	watcher.OnChange(localstore.KeyInventory, inventoryStore.Reload)
	watcher.OnChange(localstore.KeyOrders, ordersStore.Reload)
	watcher.OnChange(localstore.KeyNotifications, notificationsStore.Reload)
	watcher.OnChange(localstore.KeyActivity, activityStore.Reload)
	watcher.OnChange(localstore.KeySettings, settingsStore.Reload)

	console := cli.New(cli.Deps{
		Auth:          adminAuth,
		CustomerAuth:  customerAuth,
		Inventory:     inventoryStore,
		Orders:        ordersStore,
		POS:           posStore,
		Notifications: notificationsStore,
		Activity:      activityStore,
		Settings:      settingsStore,
		Reports:       reportsUC,
	}, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.API.Timeout())
	defer cancel()

	if err := console.Run(ctx, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("comando fallido")
		os.Exit(1)
	}
}
