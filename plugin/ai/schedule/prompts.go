package schedule

import (
	"fmt"
	"strings"
)

const taskPromptTemplate = `
提取任务字段，日期固定今天（无需返回date）。
type_id 必须从: %s
输入: %s
输出 JSON:
{
  "title": "任务标题",
  "is_all_day": true/false,
  "start_time": "HH:MM 或 null",
  "end_time": "HH:MM 或 null",
  "location": "地点或空字符串",
  "type_id": "可选项中的id"
}
`

const eventPromptTemplate = `
解析事件（当前日期 %s）。
type_id 必须从: %s
输入: %s
输出 JSON:
{
  "title": "事件标题",
  "date": "YYYY-MM-DD",
  "is_all_day": true/false,
  "start_time": "HH:MM 或 null",
  "end_time": "HH:MM 或 null",
  "location": "地点或空字符串",
  "type_id": "可选项中的id"
}
`

const calendarTypePromptTemplate = `
从描述中生成日历类型。
color 必须精确从列表选择: %s
输入: %s
输出 JSON:
{"name": "类型名称", "color": "#HEX"}
`

// categoryList renders options as "id(name), id(name)".
func categoryList(options []CategoryOption) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		parts = append(parts, fmt.Sprintf("%s(%s)", opt.ID, opt.Name))
	}
	return strings.Join(parts, ", ")
}

func colorList(options []ColorOption) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		parts = append(parts, strings.ToUpper(opt.Value))
	}
	return strings.Join(parts, ", ")
}

func buildTaskPrompt(utterance string, options []CategoryOption) string {
	return fmt.Sprintf(taskPromptTemplate, categoryList(options), utterance)
}

func buildEventPrompt(utterance, currentDate string, options []CategoryOption) string {
	return fmt.Sprintf(eventPromptTemplate, currentDate, categoryList(options), utterance)
}

func buildCalendarTypePrompt(utterance string, options []ColorOption) string {
	return fmt.Sprintf(calendarTypePromptTemplate, colorList(options), utterance)
}
