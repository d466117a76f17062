package protocol

import (
	"errors"
	"testing"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
)

func TestClassify_CommandResponse(t *testing.T) {
	payload := []byte(`{"cmd":"AUTHORIZE","data":{"code":"abc123"},"nonce":"n1"}`)
	var res AuthorizeResponse
	ev, err := Classify(payload, &res)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if ev != nil {
		t.Errorf("event = %v, want nil for a command response", ev)
	}
	if res.Code != "abc123" {
		t.Errorf("code = %q, want %q", res.Code, "abc123")
	}
}

func TestClassify_CommandResponseNilOut(t *testing.T) {
	payload := []byte(`{"cmd":"SUBSCRIBE","data":{"evt":"GUILD_STATUS"},"nonce":"n2"}`)
	ev, err := Classify(payload, nil)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if ev != nil {
		t.Errorf("event = %v, want nil", ev)
	}
}

func TestClassify_NullData(t *testing.T) {
	payload := []byte(`{"cmd":"GET_SELECTED_VOICE_CHANNEL","data":null,"nonce":"n3"}`)
	var ch *discord.Channel
	ev, err := Classify(payload, &ch)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if ev != nil {
		t.Errorf("event = %v, want nil", ev)
	}
	if ch != nil {
		t.Errorf("channel = %v, want nil for null data", ch)
	}
}

func TestClassify_Ready(t *testing.T) {
	payload := []byte(`{"cmd":"DISPATCH","evt":"READY","data":{
		"v":1,
		"config":{"cdn_host":"cdn.discordapp.com","api_endpoint":"//discord.com/api","environment":"production"},
		"user":{"id":"190916650143318016","username":"test","discriminator":"0"}
	}}`)
	ev, err := Classify(payload, nil)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	ready, ok := ev.(Ready)
	if !ok {
		t.Fatalf("event = %T, want Ready", ev)
	}
	if ready.V != 1 {
		t.Errorf("v = %d, want 1", ready.V)
	}
	if ready.Config.APIEndpoint != "//discord.com/api" {
		t.Errorf("api endpoint = %q, want //discord.com/api", ready.Config.APIEndpoint)
	}
	if ready.User.ID != 190916650143318016 {
		t.Errorf("user id = %d, want 190916650143318016", ready.User.ID)
	}
}

func TestClassify_ErrorEvent(t *testing.T) {
	payload := []byte(`{"cmd":"AUTHORIZE","evt":"ERROR","data":{"code":4007,"message":"No client id provided"},"nonce":"n4"}`)
	ev, err := Classify(payload, nil)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	errEv, ok := ev.(ErrorEvent)
	if !ok {
		t.Fatalf("event = %T, want ErrorEvent", ev)
	}
	if errEv.Code != 4007 {
		t.Errorf("code = %d, want 4007", errEv.Code)
	}
	if got := errEv.Error(); got != "discord error 4007: No client id provided" {
		t.Errorf("Error() = %q", got)
	}
}

func TestClassify_VoiceSettingsUpdate(t *testing.T) {
	payload := []byte(`{"cmd":"DISPATCH","evt":"VOICE_SETTINGS_UPDATE","data":{
		"input":{"device_id":"default","volume":42.5},
		"mode":{"type":"PUSH_TO_TALK","threshold":-46.0,"delay":150.0,
			"shortcut":[{"type":0,"code":12,"name":"i"}]},
		"deaf":false,
		"mute":true
	}}`)
	ev, err := Classify(payload, nil)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	vs, ok := ev.(VoiceSettingsUpdate)
	if !ok {
		t.Fatalf("event = %T, want VoiceSettingsUpdate", ev)
	}
	if vs.Input == nil || vs.Input.Volume != 42.5 {
		t.Errorf("input = %+v, want volume 42.5", vs.Input)
	}
	if vs.Mode == nil || vs.Mode.Type != discord.ModePushToTalk {
		t.Errorf("mode = %+v, want PUSH_TO_TALK", vs.Mode)
	}
	if len(vs.Mode.Shortcut) != 1 || vs.Mode.Shortcut[0].Type != discord.KeyboardKey {
		t.Errorf("shortcut = %+v, want one keyboard key", vs.Mode.Shortcut)
	}
	if vs.Mute == nil || !*vs.Mute {
		t.Error("mute should be true")
	}
}

func TestClassify_UnknownEvent(t *testing.T) {
	payload := []byte(`{"cmd":"DISPATCH","evt":"TOTALLY_NEW_EVENT","data":{}}`)
	_, err := Classify(payload, nil)
	var invalid *InvalidEventError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %v, want InvalidEventError", err)
	}
	if invalid.Name != "TOTALLY_NEW_EVENT" {
		t.Errorf("name = %q, want TOTALLY_NEW_EVENT", invalid.Name)
	}
}

func TestClassify_MalformedJSON(t *testing.T) {
	if _, err := Classify([]byte(`{"evt":`), nil); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestClassify_SpeakingEvents(t *testing.T) {
	for _, tc := range []struct {
		evt  string
		want string
	}{
		{`SPEAKING_START`, EventSpeakingStart},
		{`SPEAKING_STOP`, EventSpeakingStop},
	} {
		payload := []byte(`{"cmd":"DISPATCH","evt":"` + tc.evt + `","data":{"user_id":"53908232506183680"}}`)
		ev, err := Classify(payload, nil)
		if err != nil {
			t.Fatalf("Classify(%s) failed: %v", tc.evt, err)
		}
		if ev.EventName() != tc.want {
			t.Errorf("event name = %q, want %q", ev.EventName(), tc.want)
		}
	}
}
