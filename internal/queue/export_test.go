package queue

var (
	TaskValues    = taskValues
	MessageValues = messageValues
)
