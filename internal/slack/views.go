package slack

// CallbackEditAndSend is the callback_id shared by the placeholder modal and
// the editable modal that replaces it, so Slack routes the eventual
// submission the same way regardless of which one the user is looking at.
const CallbackEditAndSend = "edit_and_send_message"

// View is a Slack Block Kit modal view definition.
type View struct {
	Type            string      `json:"type"`
	CallbackID      string      `json:"callback_id,omitempty"`
	Title           *TextObject `json:"title,omitempty"`
	Submit          *TextObject `json:"submit,omitempty"`
	Close           *TextObject `json:"close,omitempty"`
	PrivateMetadata string      `json:"private_metadata,omitempty"`
	Blocks          []Block     `json:"blocks"`
}

// TextObject is a Block Kit text composition object.
type TextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is a Block Kit layout block. Only the fields used by section and
// input blocks are modelled.
type Block struct {
	Type    string        `json:"type"`
	BlockID string        `json:"block_id,omitempty"`
	Text    *TextObject   `json:"text,omitempty"`
	Element *InputElement `json:"element,omitempty"`
	Label   *TextObject   `json:"label,omitempty"`
}

// InputElement is a Block Kit input element (plain_text_input).
type InputElement struct {
	Type         string `json:"type"`
	ActionID     string `json:"action_id"`
	Multiline    bool   `json:"multiline,omitempty"`
	InitialValue string `json:"initial_value,omitempty"`
}

func plainText(s string) *TextObject {
	return &TextObject{Type: "plain_text", Text: s}
}

func mrkdwn(s string) *TextObject {
	return &TextObject{Type: "mrkdwn", Text: s}
}

// PlaceholderView builds the minimal "Working…" modal shown immediately
// after a slash command, before the rewrite is ready. It has no submit
// action; closing is the only affordance. The channel ID rides along in
// private_metadata so it survives the later views.update.
func PlaceholderView(channelID string) View {
	return View{
		Type:            "modal",
		CallbackID:      CallbackEditAndSend,
		Title:           plainText("Repharsely"),
		Close:           plainText("Cancel"),
		PrivateMetadata: channelID,
		Blocks: []Block{
			{
				Type: "section",
				Text: mrkdwn(":hourglass_flowing_sand: Working on your suggestion…"),
			},
		},
	}
}

// MessageInputBlockID and MessageInputActionID address the editable text
// field inside the edit modal; the interaction payload echoes them back
// under view.state.values.
const (
	MessageInputBlockID  = "message_input"
	MessageInputActionID = "message_text"
)

// EditView builds the editable modal that replaces the placeholder: one
// multiline input pre-filled with the suggested text and a Send submit
// action. Same callback_id and private_metadata as the placeholder.
func EditView(channelID, text string) View {
	return View{
		Type:            "modal",
		CallbackID:      CallbackEditAndSend,
		Title:           plainText("Edit Message"),
		Submit:          plainText("Send"),
		Close:           plainText("Cancel"),
		PrivateMetadata: channelID,
		Blocks: []Block{
			{
				Type:    "input",
				BlockID: MessageInputBlockID,
				Element: &InputElement{
					Type:         "plain_text_input",
					ActionID:     MessageInputActionID,
					Multiline:    true,
					InitialValue: text,
				},
				Label: plainText("Edit your message"),
			},
		},
	}
}
