// Command handreport renders a recorded session from the local event log as
// a hand-by-hand report.
//
// Usage:
//
//	handreport -db pokernight_local.db               # list recorded sessions
//	handreport -db pokernight_local.db -session ID   # full session report
//	handreport -db pokernight_local.db -session ID -hand 3
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"pokernight/engine"
	"pokernight/eventlog"

	"github.com/pterm/pterm"
)

func main() {
	dbPath := flag.String("db", "", "path to the local event log database (defaults to the server's location)")
	sessionID := flag.String("session", "", "session id to report on")
	handNum := flag.Uint("hand", 0, "limit the report to one hand")
	limit := flag.Int("limit", 20, "number of sessions to list")
	flag.Parse()

	store, err := openStore(*dbPath)
	if err != nil {
		pterm.Error.Printfln("open event log: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if *sessionID == "" {
		if err := listSessions(ctx, store, *limit); err != nil {
			pterm.Error.Printfln("list sessions: %v", err)
			os.Exit(1)
		}
		return
	}

	var events []eventlog.StoredEvent
	if *handNum > 0 {
		events, err = store.ListHand(ctx, *sessionID, uint32(*handNum))
	} else {
		events, err = store.ListSession(ctx, *sessionID)
	}
	if err != nil {
		pterm.Error.Printfln("load session %s: %v", *sessionID, err)
		os.Exit(1)
	}
	report(events)
}

func openStore(dbPath string) (*eventlog.SQLiteStore, error) {
	if strings.TrimSpace(dbPath) != "" {
		return eventlog.NewSQLiteStore(dbPath)
	}
	return eventlog.NewSQLiteStoreFromEnv()
}

func listSessions(ctx context.Context, store *eventlog.SQLiteStore, limit int) error {
	infos, err := store.Sessions(ctx, limit)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		pterm.Info.Println("no recorded sessions")
		return nil
	}

	rows := pterm.TableData{{"Session", "Table", "Started", "Last Event", "Events"}}
	for _, info := range infos {
		rows = append(rows, []string{
			info.SessionID,
			info.TableID,
			info.FirstAt.Format(time.RFC3339),
			info.LastAt.Format(time.RFC3339),
			fmt.Sprintf("%d", info.Events),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func report(events []eventlog.StoredEvent) {
	var currentHand uint32
	for _, se := range events {
		e := se.Event
		if e.HandNum != currentHand && e.HandNum > 0 {
			currentHand = e.HandNum
			pterm.DefaultSection.Printfln("Hand #%d", currentHand)
		}
		line := describe(e)
		if line == "" {
			continue
		}
		switch e.Type {
		case engine.EventPotAwarded:
			pterm.Success.Println(line)
		case engine.EventHandVoided, engine.EventConnLost:
			pterm.Warning.Println(line)
		case engine.EventSessionStarted, engine.EventSessionEnded:
			pterm.Info.Println(line)
		default:
			pterm.Printfln("  %s", line)
		}
	}
}

func describe(e engine.Event) string {
	switch e.Type {
	case engine.EventSessionStarted:
		return fmt.Sprintf("session started at table %s (blinds %d/%d)", e.TableID, e.SmallBlind, e.BigBlind)
	case engine.EventSessionEnded:
		return fmt.Sprintf("session ended by %s", e.Seat)
	case engine.EventSeatAdded:
		return fmt.Sprintf("%s sat down as %q", e.Seat, e.Detail)
	case engine.EventDealerAssigned:
		if e.Target != "" {
			return fmt.Sprintf("%s passed the dealer button to %s", e.Seat, e.Target)
		}
		return fmt.Sprintf("%s is the dealer", e.Seat)
	case engine.EventBankAssigned:
		if e.Target != "" {
			return fmt.Sprintf("%s handed the bank to %s", e.Seat, e.Target)
		}
		return fmt.Sprintf("%s is the bank", e.Seat)
	case engine.EventStackSet:
		return fmt.Sprintf("bank set %s's stack to %d", e.Target, e.Amount)
	case engine.EventBlindsSet:
		return fmt.Sprintf("blinds changed to %d/%d (straddle %v)", e.SmallBlind, e.BigBlind, e.Straddle)
	case engine.EventConnLost:
		return fmt.Sprintf("%s disconnected", e.Seat)
	case engine.EventConnRestored:
		return fmt.Sprintf("%s reconnected", e.Seat)
	case engine.EventHandStarted:
		return fmt.Sprintf("button on %s", e.Seat)
	case engine.EventBlindPosted:
		return fmt.Sprintf("%s posts blind %d", e.Seat, e.Amount)
	case engine.EventStraddlePosted:
		return fmt.Sprintf("%s straddles %d", e.Seat, e.Amount)
	case engine.EventActionTaken:
		if e.Amount > 0 {
			return fmt.Sprintf("[%s] %s %s to %d", e.Street, e.Seat, strings.ToLower(e.Action), e.Amount)
		}
		return fmt.Sprintf("[%s] %s %s", e.Street, e.Seat, strings.ToLower(e.Action))
	case engine.EventStreetAdvanced:
		return fmt.Sprintf("[%s] board: %s", e.Street, strings.Join(e.Board, " "))
	case engine.EventPotAwarded:
		label := "pot"
		if e.Split {
			label = "split pot"
		}
		if e.Auto {
			label += " (uncontested)"
		}
		return fmt.Sprintf("%s of %d to %s", label, e.Amount, strings.Join(e.Winners, ", "))
	case engine.EventHandEnded:
		if e.Detail != "" && e.Detail != "uncontested" {
			return fmt.Sprintf("hand over, best hand: %s", e.Detail)
		}
		return "hand over"
	case engine.EventHandVoided:
		return fmt.Sprintf("hand voided by %s, all bets returned", e.Seat)
	case engine.EventShowdownChoice:
		if len(e.Cards) > 0 {
			return fmt.Sprintf("%s chose %s: %s", e.Seat, e.Detail, strings.Join(e.Cards, " "))
		}
		return fmt.Sprintf("%s chose %s", e.Seat, e.Detail)
	case engine.EventCardsRevealed:
		return fmt.Sprintf("%s shows %s", e.Seat, strings.Join(e.Cards, " "))
	}
	return ""
}
