package topic

import (
	"fmt"
	"regexp"
)

var topicNameRegex = regexp.MustCompile("^[^#+]+$")

// TodosPrefix is the first level of every todo change topic.
const TodosPrefix = "todos"

type TopicName struct {
	Value string `json:"value"`
}

func NewName(value string) (*TopicName, error) {
	if value == "" {
		return nil, fmt.Errorf("topic name: %s cannot be empty", value)
	}

	if len(value) > 65535 {
		return nil, fmt.Errorf("topic name: %s cannot be have more than 65535 bytes", value)
	}

	if !topicNameRegex.MatchString(value) {
		return nil, fmt.Errorf("topic name: %s format is invalid", value)
	}

	return &TopicName{value}, nil
}

// Todo builds the topic name for changes to the todo with the given id.
func Todo(id string) (*TopicName, error) {
	return NewName(fmt.Sprintf("%s/%s", TodosPrefix, id))
}

func (t *TopicName) String() string {
	return t.Value
}
