/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

type TdSubCommand string

const (
	TdAboutCmd       TdSubCommand = "about"
	TdHelpCmd        TdSubCommand = "help"
	TdTournamentsCmd TdSubCommand = "tournaments"
	TdRosterCmd      TdSubCommand = "roster"
	TdPairingsCmd    TdSubCommand = "pairings"
	TdStandingsCmd   TdSubCommand = "standings"
	TdResultCmd      TdSubCommand = "result"
)

var tdSubCmdHdlrs = map[TdSubCommand]CmdHandler{
	TdAboutCmd:       tdAboutCmdHandler,
	TdHelpCmd:        tdHelpCmdHandler,
	TdTournamentsCmd: tdTournamentsCmdHandler,
	TdRosterCmd:      tdRosterCmdHandler,
	TdPairingsCmd:    tdPairingsCmdHandler,
	TdStandingsCmd:   tdStandingsCmdHandler,
	TdResultCmd:      tdResultCmdHandler,
}

func tdCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := tdHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := tdSubCmdHdlrs[TdSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

// ephemeralResp returns a response skeleton visible only to the caller.
func ephemeralResp() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subCmdOptions extracts a subcommand's options into a name keyed map
// along with the shared broadcast flag.
func subCmdOptions(inter *discordgo.Interaction) (
	map[string]*discordgo.ApplicationCommandInteractionDataOption, bool) {

	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	broadcast := false
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return opts, broadcast
	}
	for _, opt := range data.Options[0].Options {
		if opt.Name == "broadcast" {
			broadcast = opt.BoolValue()
		} else {
			opts[opt.Name] = opt
		}
	}

	return opts, broadcast
}

//go:embed about.txt
var aboutText string

func tdAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	resp.Data.Content = truncateContent(aboutText)

	return resp
}

//go:embed help.md
var helpText string

func tdHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	resp.Data.Content = truncateContent(helpText)

	return resp
}

func tdTournamentsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	_, broadcast := subCmdOptions(inter)

	tournaments, err := tdb.Tournaments(ctx)
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error listing tournaments: %v", err)
		log.Printf("discordbot.tournaments: %v", resp.Data.Content)
		return resp
	}
	if len(tournaments) == 0 {
		resp.Data.Content = "No tournaments found."
		return resp
	}

	var sb strings.Builder
	for _, t := range tournaments {
		if t.Date.IsZero() {
			sb.WriteString(fmt.Sprintf("- %v (tid:%v)\n", t.Name, t.ID))
		} else {
			sb.WriteString(fmt.Sprintf("- %v on %v (tid:%v)\n", t.Name,
				t.Date.Format("2006-01-02"), t.ID))
		}
	}
	resp.Data.Content = truncateContent(sb.String())
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

func tdRosterCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	opts, broadcast := subCmdOptions(inter)
	tidOpt, ok := opts["tid"]
	if !ok {
		resp.Data.Content = "Please provide a tournament id."
		log.Printf("discordbot.roster: %v", resp.Data.Content)
		return resp
	}

	snap, err := engine.ExportSnapshot(ctx, tidOpt.IntValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error loading roster for tid:%d: %v",
			tidOpt.IntValue(), err)
		log.Printf("discordbot.roster: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildRosterOutput(snap.Players)))
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdPairingsCmdHandler handles the /td pairings command to display the
// latest round's pairings
func tdPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	opts, broadcast := subCmdOptions(inter)
	tidOpt, ok := opts["tid"]
	if !ok {
		resp.Data.Content = "Please provide a tournament id."
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	snap, err := engine.ExportSnapshot(ctx, tidOpt.IntValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error fetching pairings for tid:%d: %v",
			tidOpt.IntValue(), err)
		log.Printf("discordbot.pairings: %v", resp.Data.Content)
		return resp
	}

	latest := 0
	for _, p := range snap.Pairings {
		if p.RoundNumber > latest {
			latest = p.RoundNumber
		}
	}
	var selected []swiss.Pairing
	for _, p := range snap.Pairings {
		if p.RoundNumber == latest {
			selected = append(selected, p)
		}
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildPairingsOutput(snap.Players, selected)))
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdStandingsCmdHandler handles the /td standings command to display
// current standings
func tdStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	opts, broadcast := subCmdOptions(inter)
	tidOpt, ok := opts["tid"]
	if !ok {
		resp.Data.Content = "Please provide a tournament id."
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	standings, err := engine.ComputeStandings(ctx, tidOpt.IntValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Error computing standings for tid:%d: %v",
			tidOpt.IntValue(), err)
		log.Printf("discordbot.standings: %v", resp.Data.Content)
		return resp
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildStandingsOutput(standings)))
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// tdResultCmdHandler handles the /td result command to record or
// correct a game result
func tdResultCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := ephemeralResp()
	opts, broadcast := subCmdOptions(inter)
	pairingOpt, haveP := opts["pairing"]
	resultOpt, haveR := opts["result"]
	if !haveP || !haveR {
		resp.Data.Content = "Please provide a pairing id and a result."
		log.Printf("discordbot.result: %v", resp.Data.Content)
		return resp
	}

	result, err := swiss.ParseResult(resultOpt.StringValue())
	if err != nil {
		resp.Data.Content = fmt.Sprintf("Unrecognized result %q; use 1-0, 0-1, or draw",
			resultOpt.StringValue())
		log.Printf("discordbot.result: %v", resp.Data.Content)
		return resp
	}

	pairingID := pairingOpt.IntValue()
	if err := engine.SetPairingResult(ctx, pairingID, result); err != nil {
		resp.Data.Content = fmt.Sprintf("Error recording result for pairing:%d: %v",
			pairingID, err)
		log.Printf("discordbot.result: %v", resp.Data.Content)
		return resp
	}

	resp.Data.Content = fmt.Sprintf("Recorded %v for pairing:%d", result,
		pairingID)
	if broadcast {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
