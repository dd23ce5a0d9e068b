package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloudoodle/internal/config"
	"cloudoodle/internal/editor"
	"cloudoodle/internal/gallery"
	"cloudoodle/internal/logging"
	sharenet "cloudoodle/internal/net"
	"cloudoodle/internal/render"
	"cloudoodle/internal/ui"
)

const browseTimeout = 3 * time.Second

// Usage:
//
//	cloudoodle [photo]            edit a doodle, optionally over a photo
//	cloudoodle cloudoodle://h:p   follow a share hub
//	cloudoodle cloudoodle://      find a share hub on the LAN and follow it
func main() {
	path := os.Getenv("CLOUDOODLE_CONFIG")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cloudoodle:", err)
		os.Exit(1)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logging.Set(logging.New(os.Stderr, level))
	log := logging.For("main")

	args := os.Args
	if len(args) > 1 && strings.HasPrefix(args[1], sharenet.Scheme) {
		if err := runViewer(args[1]); err != nil {
			log.Error("viewer failed", "err", err)
			os.Exit(1)
		}
		return
	}

	var photo string
	if len(args) > 1 {
		photo = args[1]
	}
	if err := runEditor(cfg, photo); err != nil {
		log.Error("editor failed", "err", err)
		os.Exit(1)
	}
}

func runEditor(cfg config.Config, photo string) error {
	log := logging.For("main")
	log.Info("starting editor", "gallery", cfg.GalleryDir, "undo", cfg.UndoGranularity)

	store, err := gallery.Open(cfg.GalleryDir)
	if err != nil {
		return err
	}
	session := editor.New(editor.OptionsFromConfig(cfg), render.New(render.NewAssets()), store)
	if photo != "" {
		session.SetPhoto(photo)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var link string
	if cfg.ShareEnabled {
		hub := sharenet.NewHub(store)
		session.OnSaved = func(d gallery.Doodle) {
			go hub.Announce(d)
		}
		go func() {
			if err := hub.Serve(ctx, cfg.SharePort); err != nil {
				log.Error("share hub stopped", "err", err)
			}
		}()

		mdnsServer, err := sharenet.Advertise(cfg.SharePort)
		if err != nil {
			log.Warn("LAN discovery unavailable", "err", err)
		} else {
			defer mdnsServer.Shutdown()
		}
		link = sharenet.ShareLink(sharenet.OutgoingIP(), cfg.SharePort)
		log.Info("sharing doodles", "link", link)
	}

	ui.RunEditor(ui.Editor{Config: cfg, Session: session, Gallery: store, ShareLink: link})
	return nil
}

func runViewer(link string) error {
	log := logging.For("main")
	if link == sharenet.Scheme {
		ctx, cancel := context.WithTimeout(context.Background(), browseTimeout+time.Second)
		defer cancel()
		hubs, err := sharenet.Browse(ctx, browseTimeout)
		if err != nil {
			return err
		}
		if len(hubs) == 0 {
			return fmt.Errorf("no share hub found on the local network")
		}
		log.Info("found share hubs", "hubs", hubs)
		ui.RunViewer(hubs[0])
		return nil
	}

	addr, err := sharenet.ParseLink(link)
	if err != nil {
		return err
	}
	log.Info("starting viewer", "addr", addr)
	ui.RunViewer(addr)
	return nil
}
