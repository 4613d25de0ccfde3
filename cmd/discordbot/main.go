/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/scholastic-swiss-td/internal"
	"github.com/mikeb26/scholastic-swiss-td/store"
	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

const (
	TokenEnvVar  = "SWISSTD_DISCORD_TOKEN"
	PubKeyEnvVar = "SWISSTD_DISCORD_PUBKEY"
	AppIdEnvVar  = "SWISSTD_DISCORD_APPID"
)

var botPubKey ed25519.PublicKey
var botAppId string

var client *discordgo.Session
var engine *swiss.Engine
var tdb *store.Store

type TopLevelCommand string

const (
	TdCmd TopLevelCommand = "td"
)

type CmdHandler func(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	TdCmd: tdCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		log.Printf("discordbot.int: failed to verify")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("discordbot.int: failed to read request body: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		log.Printf("discordbot.int: failed to unmarshal interaction: err:%v body:%v",
			err, body)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		log.Printf("discordbot.int: unimplemented interaction type %v: inter:%v",
			inter.Type, inter)
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		log.Printf("discordbot.int: failed to marshal resp: err:%v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		log.Printf("discordbot.int: failed to write resp: err:%v", err)
		return
	}
}

func init() {
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
}

func initFromEnv() error {
	pubKeyText := os.Getenv(PubKeyEnvVar)
	if pubKeyText == "" {
		return fmt.Errorf("%v is unset", PubKeyEnvVar)
	}
	pubKeyBytes, err := hex.DecodeString(pubKeyText)
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	token := os.Getenv(TokenEnvVar)
	if token == "" {
		return fmt.Errorf("%v is unset", TokenEnvVar)
	}
	client, err = discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("failed to initialize discord client: %w", err)
	}
	botAppId = os.Getenv(AppIdEnvVar)

	dbPath := os.Getenv(internal.DBPathEnvVar)
	if dbPath == "" {
		dbPath = internal.DefaultDBPath
	}
	tdb, err = store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open %v: %w", dbPath, err)
	}
	engine = swiss.NewEngine(tdb)

	return nil
}

func registerSlashCommands() {
	if botAppId == "" {
		log.Printf("discordbot.reg: %v is unset; skipping registration",
			AppIdEnvVar)
		return
	}

	broadcastOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        "broadcast",
		Description: "Share with the rest of the channel instead of only to you (default is false)",
		Required:    false,
	}
	tidOpt := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "tid",
		Description: "Tournament id (as returned by tournaments)",
		Required:    true,
	}

	tdCmd := &discordgo.ApplicationCommand{
		Name:        string(TdCmd),
		Description: "Tournament director commands; try /td help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdHelpCmd),
				Description: "Show usage for td",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdAboutCmd),
				Description: "Show information about swisstd",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdTournamentsCmd),
				Description: "List tournaments",
				Options: []*discordgo.ApplicationCommandOption{
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdRosterCmd),
				Description: "Show the roster for a tournament",
				Options: []*discordgo.ApplicationCommandOption{
					tidOpt,
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdPairingsCmd),
				Description: "Show the latest round's pairings",
				Options: []*discordgo.ApplicationCommandOption{
					tidOpt,
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdStandingsCmd),
				Description: "Show current standings",
				Options: []*discordgo.ApplicationCommandOption{
					tidOpt,
					broadcastOpt,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(TdResultCmd),
				Description: "Record or correct a game result",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionInteger,
						Name:        "pairing",
						Description: "Pairing id (as shown by pairings)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "result",
						Description: "1-0, 0-1, or draw",
						Required:    true,
					},
					broadcastOpt,
				},
			},
		},
	}

	cmd, err := client.ApplicationCommandCreate(botAppId, "", tdCmd)
	if err != nil {
		log.Printf("discordbot.reg: failed to register %v: %v", tdCmd.Name,
			err)
		return
	}

	log.Printf("discordbot.reg: registered %v(cmdID:%v)", cmd.Name, cmd.ID)
}

func main() {
	if err := initFromEnv(); err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	defer tdb.Close()

	go registerSlashCommands()

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	log.Printf("discordbot.main: starting server on %v:8080", hostname)

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		log.Fatalf("discordbot.main: Serve failed: %v", err)
	}

	log.Printf("discordbot.main: exiting")
}
