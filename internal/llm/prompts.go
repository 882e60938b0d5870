package llm

import (
	"fmt"
	"strings"

	"github.com/thornquist/loreweaver/pkg/types"
)

// historyWindow is the number of trailing messages included in the
// conversation context. Older turns are represented only through the
// rolling summary and extracted user facts.
const historyWindow = 20

// factWindow is the number of trailing user messages scanned for fact
// extraction.
const factWindow = 10

// BuildCharacterPrompt assembles the full completion prompt for one
// conversation turn: character framing, world state, memory, recent history,
// the incoming user message, and the response contract.
func BuildCharacterPrompt(character *types.Character, history []*types.Message, events []*types.WorldEvent, conversation *types.Conversation, userMessage string) string {
	var b strings.Builder

	b.WriteString(buildCharacterFraming(character, events, conversation))
	b.WriteString("\n\n")
	b.WriteString(buildConversationContext(history))
	b.WriteString("\n\nUser: ")
	b.WriteString(userMessage)

	fmt.Fprintf(&b, `

Respond as %s in JSON format with the following structure:
{
  "message": "your response as the character",
  "mood": "current emotional state (happy/sad/angry/excited/mysterious/etc)",
  "actionTaken": "optional: describe any physical action you take",
  "questOffered": {
    "title": "quest title",
    "description": "quest description",
    "difficulty": "easy/medium/hard/legendary"
  } // only include if offering a quest
}`, character.Name)

	return b.String()
}

func buildCharacterFraming(character *types.Character, events []*types.WorldEvent, conversation *types.Conversation) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, a %s in a fantasy world.\n\n", character.Name, character.Role)
	fmt.Fprintf(&b, "PERSONALITY & BACKSTORY:\n%s\n\n%s\n\n", character.PersonalityPrompt, character.Backstory)
	fmt.Fprintf(&b, "LOCATION: %s\n\n", character.Location)
	fmt.Fprintf(&b, "SPEECH PATTERNS:\n%s\n\n", strings.Join(character.SpeechPatterns, ", "))
	fmt.Fprintf(&b, "KNOWLEDGE DOMAINS:\n%s\n\n", strings.Join(character.KnowledgeDomains, ", "))

	fmt.Fprintf(&b, "CURRENT MOOD: %s (%d/10)\n", character.CurrentMood.State, character.CurrentMood.Intensity)
	if character.CurrentMood.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", character.CurrentMood.Reason)
	}
	b.WriteString("\n")

	b.WriteString("CURRENT WORLD STATE:\n")
	if len(events) == 0 {
		b.WriteString("The realm is peaceful and calm.")
	} else {
		lines := make([]string, 0, len(events))
		for _, event := range events {
			lines = append(lines, fmt.Sprintf("- %s: %s (Severity: %s)", event.Name, event.Description, event.Severity))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}
	b.WriteString("\n")

	// Long-term memory: summary and facts survive beyond the history window.
	if conversation != nil {
		if conversation.Summary != "" {
			fmt.Fprintf(&b, "\nPREVIOUS CONVERSATION SUMMARY:\n%s\n", conversation.Summary)
		}
		if conversation.Metadata != nil && len(conversation.Metadata.UserFacts) > 0 {
			b.WriteString("\nKNOWN FACTS ABOUT THE USER:\n")
			for _, fact := range conversation.Metadata.UserFacts {
				fmt.Fprintf(&b, "- %s\n", fact)
			}
		}
	}

	b.WriteString(`
INSTRUCTIONS:
- Stay in character at all times
- Use your speech patterns naturally
- React to world events in your responses
- Remember details the user shares
- Offer quests occasionally (every 5-10 messages) that fit your character
- Be immersive and engaging
- Keep responses concise (2-4 sentences unless asked for more)
- Always respond in valid JSON format`)

	return b.String()
}

func buildConversationContext(history []*types.Message) string {
	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	if len(recent) == 0 {
		return "This is the beginning of your conversation."
	}

	var b strings.Builder
	b.WriteString("CONVERSATION HISTORY:\n")
	for i, msg := range recent {
		if i > 0 {
			b.WriteString("\n")
		}
		sender := "You"
		if msg.Sender == types.SenderUser {
			sender = "User"
		}
		fmt.Fprintf(&b, "%s: %s", sender, msg.Content)
	}
	return b.String()
}

// BuildSummaryPrompt renders a full-history summarization prompt.
func BuildSummaryPrompt(history []*types.Message) string {
	var b strings.Builder
	for i, msg := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		sender := "Character"
		if msg.Sender == types.SenderUser {
			sender = "User"
		}
		fmt.Fprintf(&b, "%s: %s", sender, msg.Content)
	}

	return fmt.Sprintf(`Summarize the following conversation in 2-3 sentences, highlighting key facts the character learned about the user and important topics discussed:

%s

Summary:`, b.String())
}

// BuildFactExtractionPrompt renders a fact-extraction prompt over the trailing
// user messages only.
func BuildFactExtractionPrompt(history []*types.Message) string {
	var userMessages []string
	for _, msg := range history {
		if msg.Sender == types.SenderUser {
			userMessages = append(userMessages, msg.Content)
		}
	}
	if len(userMessages) > factWindow {
		userMessages = userMessages[len(userMessages)-factWindow:]
	}

	return fmt.Sprintf(`Extract important facts about the user from these messages:
%s

List only concrete facts (name, preferences, background, goals, etc.) as a JSON array of strings.
Example: ["User's name is Alex", "User prefers magic over combat", "User is looking for their lost sister"]

Return only the JSON array, nothing else.`, strings.Join(userMessages, "\n"))
}

// BuildWorldEventPrompt renders the random world event generation prompt.
func BuildWorldEventPrompt() string {
	return `Generate a random fantasy world event in JSON format:
{
  "eventName": "short event name",
  "description": "detailed description of what happened",
  "severity": "low/medium/high/critical",
  "affectedLocations": ["location1", "location2"]
}

Make it dramatic and fitting for a fantasy RPG world.`
}
